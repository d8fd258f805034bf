package diff

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/alfredjeanlab/pgconfig/internal/model"
	"github.com/alfredjeanlab/pgconfig/internal/snapshot"
)

func snap(v model.Version, params ...model.Parameter) *snapshot.Snapshot {
	return &snapshot.Snapshot{Version: v, Parameters: params}
}

func param(name string, typ model.VarType, bootVal string) model.Parameter {
	return model.Parameter{Name: name, VarType: typ, BootVal: bootVal}
}

func TestCompare_VersionOrder(t *testing.T) {
	for _, tc := range []struct {
		older, newer model.Version
	}{
		{16, 16},
		{16, 15},
		{17, 10},
	} {
		_, err := Compare(snap(tc.older), snap(tc.newer))
		if !errors.Is(err, ErrVersionOrder) {
			t.Errorf("Compare(%d, %d) error = %v, want ErrVersionOrder", tc.older, tc.newer, err)
		}
	}
}

func TestCompare_Identical(t *testing.T) {
	p := []model.Parameter{
		param("autovacuum", model.TypeBool, "on"),
		param("work_mem", model.TypeInteger, "4096"),
	}
	res, err := Compare(snap(15, p...), snap(16, p...))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Changes) != 0 {
		t.Errorf("Changes = %+v, want empty", res.Changes)
	}
	if s := res.Stats(); s.Total() != 0 {
		t.Errorf("Stats() = %+v, want zeros", s)
	}
}

func TestCompare_AddedAndRemoved(t *testing.T) {
	older := snap(15,
		param("vacuum_defer_cleanup_age", model.TypeInteger, "0"),
		param("work_mem", model.TypeInteger, "4096"),
	)
	newer := snap(16,
		param("vacuum_buffer_usage_limit", model.TypeInteger, "2048"),
		param("work_mem", model.TypeInteger, "4096"),
	)
	res, err := Compare(older, newer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Changes) != 2 {
		t.Fatalf("got %d changes, want 2: %+v", len(res.Changes), res.Changes)
	}

	added := res.Changes[0]
	if added.Name != "vacuum_buffer_usage_limit" || !added.Added() || added.Summary != SummaryAdded {
		t.Errorf("added row = %+v", added)
	}
	if added.Old != nil || added.New == nil {
		t.Errorf("added row sides: old=%v new=%v", added.Old, added.New)
	}

	removed := res.Changes[1]
	if removed.Name != "vacuum_defer_cleanup_age" || !removed.Removed() || removed.Summary != SummaryRemoved {
		t.Errorf("removed row = %+v", removed)
	}
	if removed.Detail() != "" {
		t.Errorf("removed row Detail() = %q, want empty", removed.Detail())
	}
}

func TestCompare_ChangedDefault(t *testing.T) {
	older := snap(12, param("shared_buffers", model.TypeInteger, "1024"))
	newer := snap(13, param("shared_buffers", model.TypeInteger, "16384"))
	res, err := Compare(older, newer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Changes) != 1 {
		t.Fatalf("got %d changes, want 1", len(res.Changes))
	}
	c := res.Changes[0]
	if c.Summary != "Changed default value" {
		t.Errorf("Summary = %q", c.Summary)
	}
	if !c.DefaultChanged || c.TypeChanged {
		t.Errorf("flags: default=%v type=%v", c.DefaultChanged, c.TypeChanged)
	}
	if got, want := c.Detail(), "Default value: 1024 -> 16384"; got != want {
		t.Errorf("Detail() = %q, want %q", got, want)
	}
}

func TestCompare_ChangedTypeAndDefault(t *testing.T) {
	older := snap(11, param("checkpoint_segments", model.TypeInteger, "3"))
	newer := snap(12, param("checkpoint_segments", model.TypeString, "three"))
	res, err := Compare(older, newer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := res.Changes[0]
	if got, want := c.Summary, "Changed default value, Changed variable type"; got != want {
		t.Errorf("Summary = %q, want %q", got, want)
	}
	if got, want := c.Detail(), "Default value: 3 -> three, Variable type: integer -> string"; got != want {
		t.Errorf("Detail() = %q, want %q", got, want)
	}

	// A row changing on both fields still counts once.
	s := res.Stats()
	if diff := cmp.Diff(Stats{Updated: 1}, s); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}
}

func TestCompare_SortedByName(t *testing.T) {
	older := snap(14,
		param("zzz_removed", model.TypeBool, "on"),
		param("mmm_changed", model.TypeInteger, "1"),
	)
	newer := snap(15,
		param("aaa_added", model.TypeBool, "off"),
		param("mmm_changed", model.TypeInteger, "2"),
	)
	res, err := Compare(older, newer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var names []string
	for _, c := range res.Changes {
		names = append(names, c.Name)
	}
	want := []string{"aaa_added", "mmm_changed", "zzz_removed"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestStats_SumToTotal(t *testing.T) {
	older := snap(15,
		param("a_removed", model.TypeBool, "on"),
		param("b_changed", model.TypeInteger, "1"),
		param("c_both", model.TypeInteger, "1"),
		param("d_same", model.TypeBool, "off"),
	)
	newer := snap(16,
		param("b_changed", model.TypeInteger, "2"),
		param("c_both", model.TypeReal, "1.5"),
		param("d_same", model.TypeBool, "off"),
		param("e_added", model.TypeEnum, "auto"),
	)
	res, err := Compare(older, newer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := res.Stats()
	if diff := cmp.Diff(Stats{Added: 1, Removed: 1, Updated: 2}, s); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}
	if s.Total() != len(res.Changes) {
		t.Errorf("Total() = %d, want %d", s.Total(), len(res.Changes))
	}
}
