package extract

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"

	"github.com/alfredjeanlab/pgconfig/internal/model"
)

// newMockDB creates a sqlmock database with automatic cleanup and expectation checking.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
		db.Close()
	})
	return db, mock
}

// settingsColumns is the column list produced by settingsQuery.
var settingsColumns = []string{
	"name", "default_config_line", "unit", "context", "category",
	"boot_val", "short_desc", "frequent_override",
	"vartype", "min_val", "max_val", "enumvals", "boot_val_display",
}

func TestServerVersion(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("server_version_num").
		WillReturnRows(sqlmock.NewRows([]string{"current_setting"}).AddRow(170002))

	major, full, err := NewWithDB(db).ServerVersion(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if major != 17 || full != 170002 {
		t.Errorf("ServerVersion() = %v, %d; want 17, 170002", major, full)
	}
}

func TestServerVersion_TooOld(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("server_version_num").
		WillReturnRows(sqlmock.NewRows([]string{"current_setting"}).AddRow(90624))

	_, _, err := NewWithDB(db).ServerVersion(context.Background())
	if err == nil || !strings.Contains(err.Error(), "postgres 10 or newer") {
		t.Errorf("error = %v, want version requirement failure", err)
	}
}

func TestSettings(t *testing.T) {
	db, mock := newMockDB(t)
	rows := sqlmock.NewRows(settingsColumns).
		AddRow("autovacuum", "autovacuum = 'on'", nil, "sighup", "Autovacuum",
			"on", "Starts the autovacuum subprocess.", false,
			"bool", nil, nil, nil, "on").
		AddRow("log_statement", "log_statement = 'none'", nil, "superuser", "Reporting and Logging / What to Log",
			"none", "Sets the type of statements logged.", false,
			"enum", nil, nil, "{none,ddl,mod,all}", "none").
		AddRow("work_mem", "work_mem = 4096", "kB", "user", "Resource Usage / Memory",
			"4096", "Sets the maximum memory to be used for query workspaces.", false,
			"integer", "64", "2147483647", nil, "4096 kB")
	mock.ExpectQuery("FROM pgconfig.settings").WillReturnRows(rows)

	params, err := NewWithDB(db).Settings(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(params) != 3 {
		t.Fatalf("got %d parameters, want 3", len(params))
	}

	want := model.Parameter{
		Name:              "log_statement",
		VarType:           model.TypeEnum,
		Category:          "Reporting and Logging / What to Log",
		Context:           "superuser",
		BootVal:           "none",
		BootValDisplay:    "none",
		EnumVals:          []string{"none", "ddl", "mod", "all"},
		ShortDesc:         "Sets the type of statements logged.",
		DefaultConfigLine: "log_statement = 'none'",
	}
	if diff := cmp.Diff(want, params[1]); diff != "" {
		t.Errorf("log_statement mismatch (-want +got):\n%s", diff)
	}

	if params[2].Unit != "kB" || params[2].MinVal != "64" || params[2].MaxVal != "2147483647" {
		t.Errorf("work_mem bounds = %q/%q/%q", params[2].Unit, params[2].MinVal, params[2].MaxVal)
	}
}

func TestBuildSnapshot(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("server_version_num").
		WillReturnRows(sqlmock.NewRows([]string{"current_setting"}).AddRow(160009))
	mock.ExpectQuery("FROM pgconfig.settings").
		WillReturnRows(sqlmock.NewRows(settingsColumns).
			AddRow("autovacuum", "autovacuum = 'on'", nil, "sighup", "Autovacuum",
				"on", "Starts the autovacuum subprocess.", false,
				"bool", nil, nil, nil, "on"))

	snap, err := NewWithDB(db).BuildSnapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Version != 16 || snap.ServerVersion != 160009 {
		t.Errorf("snapshot versions = %v/%d, want 16/160009", snap.Version, snap.ServerVersion)
	}
	if !strings.HasPrefix(snap.Ref, "snap-") {
		t.Errorf("Ref = %q, want snap- prefix", snap.Ref)
	}
	if snap.CreatedAt.IsZero() {
		t.Error("CreatedAt is zero")
	}
	if len(snap.Parameters) != 1 || snap.Parameters[0].Name != "autovacuum" {
		t.Errorf("parameters = %+v", snap.Parameters)
	}
}
