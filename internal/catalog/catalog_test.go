package catalog

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/alfredjeanlab/pgconfig/internal/conf"
	"github.com/alfredjeanlab/pgconfig/internal/model"
	"github.com/alfredjeanlab/pgconfig/internal/snapshot"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func writeSnap(t *testing.T, dir string, v model.Version, params ...model.Parameter) {
	t.Helper()
	s := &snapshot.Snapshot{
		Version:    v,
		Ref:        "snap-test" + v.String(),
		CreatedAt:  time.Now().UTC(),
		Parameters: params,
	}
	if _, err := snapshot.WriteFile(dir, s); err != nil {
		t.Fatalf("write snapshot %s: %v", v, err)
	}
}

func openTestCatalog(t *testing.T) (*Catalog, string) {
	t.Helper()
	dir := t.TempDir()
	writeSnap(t, dir, 16,
		model.Parameter{Name: "autovacuum", VarType: model.TypeBool, BootVal: "on", BootValDisplay: "on", DefaultConfigLine: "autovacuum = 'on'"},
		model.Parameter{Name: "vacuum_defer_cleanup_age", VarType: model.TypeInteger, BootVal: "0", BootValDisplay: "0", DefaultConfigLine: "vacuum_defer_cleanup_age = 0"},
		model.Parameter{Name: "work_mem", VarType: model.TypeInteger, Unit: "kB", BootVal: "4096", BootValDisplay: "4096 kB", DefaultConfigLine: "work_mem = 4096"},
	)
	writeSnap(t, dir, 17,
		model.Parameter{Name: "autovacuum", VarType: model.TypeBool, BootVal: "on", BootValDisplay: "on", DefaultConfigLine: "autovacuum = 'on'"},
		model.Parameter{Name: "work_mem", VarType: model.TypeInteger, Unit: "kB", BootVal: "8192", BootValDisplay: "8192 kB", DefaultConfigLine: "work_mem = 8192"},
	)
	c, err := Open(dir, testLogger())
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}
	return c, dir
}

func TestOpen_MissingSnapshotsAreEmpty(t *testing.T) {
	c, _ := openTestCatalog(t)

	if got := c.Loaded(); len(got) != 2 || got[0] != 16 || got[1] != 17 {
		t.Errorf("Loaded() = %v, want [16 17]", got)
	}
	if c.Has(12) {
		t.Error("Has(12) = true, want false")
	}
	s := c.Snapshot(12)
	if s.Version != 12 || len(s.Parameters) != 0 {
		t.Errorf("Snapshot(12) = %+v, want empty table for 12", s)
	}
}

func TestCatalog_Lookup(t *testing.T) {
	c, _ := openTestCatalog(t)

	p, ok := c.Lookup(16, "work_mem")
	if !ok || p.BootVal != "4096" {
		t.Errorf("Lookup(16, work_mem) = %+v, %v", p, ok)
	}
	if _, ok := c.Lookup(17, "vacuum_defer_cleanup_age"); ok {
		t.Error("Lookup(17, vacuum_defer_cleanup_age) found, want absent")
	}
	if _, ok := c.Lookup(12, "work_mem"); ok {
		t.Error("Lookup on empty version found a parameter")
	}
}

func TestCatalog_ParameterNames(t *testing.T) {
	c, _ := openTestCatalog(t)
	want := []string{"autovacuum", "vacuum_defer_cleanup_age", "work_mem"}
	if diff := cmp.Diff(want, c.ParameterNames()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestCatalog_Compare(t *testing.T) {
	c, _ := openTestCatalog(t)

	res, err := c.Compare(16, 17)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Changes) != 2 {
		t.Fatalf("got %d changes, want 2: %+v", len(res.Changes), res.Changes)
	}
	if res.Changes[0].Name != "vacuum_defer_cleanup_age" || !res.Changes[0].Removed() {
		t.Errorf("first change = %+v, want removed vacuum_defer_cleanup_age", res.Changes[0])
	}
	if res.Changes[1].Name != "work_mem" || !res.Changes[1].DefaultChanged {
		t.Errorf("second change = %+v, want changed work_mem", res.Changes[1])
	}
}

func TestCatalog_CompareAgainstEmptyVersion(t *testing.T) {
	c, _ := openTestCatalog(t)

	// Version 12 has no snapshot; every parameter in 16 shows up as added.
	res, err := c.Compare(12, 16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stats := res.Stats()
	if stats.Added != 3 || stats.Removed != 0 || stats.Updated != 0 {
		t.Errorf("stats = %+v, want 3 added", stats)
	}
}

func TestCatalog_DefaultEntries(t *testing.T) {
	c, _ := openTestCatalog(t)

	f, err := c.DefaultEntries(16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []conf.Entry{
		{Key: "autovacuum", Value: "'on'"},
		{Key: "vacuum_defer_cleanup_age", Value: "0"},
		{Key: "work_mem", Value: "4096"},
	}
	if diff := cmp.Diff(want, f.Entries); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestCatalog_CompareCustom(t *testing.T) {
	c, _ := openTestCatalog(t)

	submitted, err := conf.ParseString("work_mem = '64MB'\nbogus = 1\n")
	if err != nil {
		t.Fatalf("parse submission: %v", err)
	}
	res, err := c.CompareCustom(16, submitted)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Modified) != 1 || res.Modified[0].Name != "work_mem" || res.Modified[0].Default != "4096" {
		t.Errorf("Modified = %+v", res.Modified)
	}
	if len(res.Unknown) != 1 || res.Unknown[0].Name != "bogus" {
		t.Errorf("Unknown = %+v", res.Unknown)
	}
	if res.AtDefault != 2 {
		t.Errorf("AtDefault = %d, want 2", res.AtDefault)
	}
}

func TestCatalog_History(t *testing.T) {
	c, _ := openTestCatalog(t)

	h := c.History("work_mem")
	if h.Details == nil || h.Details.BootVal != "8192" {
		t.Fatalf("Details = %+v, want work_mem from version 17", h.Details)
	}
	if len(h.Entries) != len(model.Supported()) {
		t.Fatalf("got %d entries, want %d", len(h.Entries), len(model.Supported()))
	}
	byVersion := make(map[model.Version]HistoryEntry)
	for _, e := range h.Entries {
		byVersion[e.Version] = e
	}
	if byVersion[16].BootVal != "4096 kB" || byVersion[17].BootVal != "8192 kB" {
		t.Errorf("history values: 16=%q 17=%q", byVersion[16].BootVal, byVersion[17].BootVal)
	}
	if byVersion[10].BootVal != "" || byVersion[10].VarType != "" {
		t.Errorf("version 10 entry = %+v, want empty", byVersion[10])
	}

	// A parameter gone from the latest version has history but no details.
	h = c.History("vacuum_defer_cleanup_age")
	if h.Details != nil {
		t.Errorf("Details = %+v, want nil", h.Details)
	}
	if byV := h.Entries[6]; byV.Version != 16 || byV.BootVal != "0" {
		t.Errorf("entry for 16 = %+v", byV)
	}
}

func TestCatalog_Reload(t *testing.T) {
	c, dir := openTestCatalog(t)

	writeSnap(t, dir, 15,
		model.Parameter{Name: "work_mem", VarType: model.TypeInteger, BootVal: "4096", DefaultConfigLine: "work_mem = 4096"},
	)
	if c.Has(15) {
		t.Fatal("Has(15) = true before reload")
	}
	if err := c.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !c.Has(15) {
		t.Error("Has(15) = false after reload")
	}
	if got := c.Loaded(); len(got) != 3 {
		t.Errorf("Loaded() = %v, want three versions", got)
	}
}
