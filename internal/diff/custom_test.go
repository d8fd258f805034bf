package diff

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/alfredjeanlab/pgconfig/internal/conf"
)

func parseConf(t *testing.T, s string) *conf.File {
	t.Helper()
	f, err := conf.ParseString(s)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	return f
}

const defaultConf = `
autovacuum = 'on'
listen_addresses = 'localhost'
shared_buffers = 16384
work_mem = 4096
`

func TestCompareCustom(t *testing.T) {
	submitted := parseConf(t, `
listen_addresses = '*'        # changed from default
work_mem = 4096               # explicitly at default
made_up_setting = 42          # not a real parameter
`)
	res := CompareCustom(16, parseConf(t, defaultConf), submitted)

	wantModified := []CustomEntry{
		{Name: "listen_addresses", Value: "'*'", Default: "'localhost'"},
	}
	if diff := cmp.Diff(wantModified, res.Modified); diff != "" {
		t.Errorf("modified mismatch (-want +got):\n%s", diff)
	}

	wantUnknown := []CustomEntry{
		{Name: "made_up_setting", Value: "42"},
	}
	if diff := cmp.Diff(wantUnknown, res.Unknown); diff != "" {
		t.Errorf("unknown mismatch (-want +got):\n%s", diff)
	}

	// autovacuum and shared_buffers are untouched; work_mem matches its
	// default so it is dropped, not counted.
	if res.AtDefault != 2 {
		t.Errorf("AtDefault = %d, want 2", res.AtDefault)
	}
	if len(res.Duplicates) != 0 {
		t.Errorf("Duplicates = %v, want none", res.Duplicates)
	}
}

func TestCompareCustom_LastOccurrenceWins(t *testing.T) {
	submitted := parseConf(t, `
work_mem = '8MB'
work_mem = 4096
`)
	res := CompareCustom(16, parseConf(t, defaultConf), submitted)

	// The final work_mem matches the default, so nothing is modified, but
	// both occurrences still show up as duplicates.
	if len(res.Modified) != 0 {
		t.Errorf("Modified = %+v, want empty", res.Modified)
	}
	wantDups := []conf.Entry{
		{Key: "work_mem", Value: "'8MB'"},
		{Key: "work_mem", Value: "4096"},
	}
	if diff := cmp.Diff(wantDups, res.Duplicates); diff != "" {
		t.Errorf("duplicates mismatch (-want +got):\n%s", diff)
	}
}

func TestCompareCustom_EmptySubmission(t *testing.T) {
	res := CompareCustom(16, parseConf(t, defaultConf), parseConf(t, "# nothing set\n"))
	if len(res.Modified) != 0 || len(res.Unknown) != 0 {
		t.Errorf("got modified=%v unknown=%v, want none", res.Modified, res.Unknown)
	}
	if res.AtDefault != 4 {
		t.Errorf("AtDefault = %d, want 4", res.AtDefault)
	}
}

func TestCompareCustom_SortedOutput(t *testing.T) {
	submitted := parseConf(t, `
zz_fake = 1
aa_fake = 2
work_mem = 1
shared_buffers = 1
`)
	res := CompareCustom(16, parseConf(t, defaultConf), submitted)

	var unknown []string
	for _, e := range res.Unknown {
		unknown = append(unknown, e.Name)
	}
	if diff := cmp.Diff([]string{"aa_fake", "zz_fake"}, unknown); diff != "" {
		t.Errorf("unknown order mismatch (-want +got):\n%s", diff)
	}
	var modified []string
	for _, e := range res.Modified {
		modified = append(modified, e.Name)
	}
	if diff := cmp.Diff([]string{"shared_buffers", "work_mem"}, modified); diff != "" {
		t.Errorf("modified order mismatch (-want +got):\n%s", diff)
	}
}
