// Package diff compares parameter tables across PostgreSQL versions and
// user configurations against shipped defaults.
package diff

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/alfredjeanlab/pgconfig/internal/model"
	"github.com/alfredjeanlab/pgconfig/internal/snapshot"
)

// ErrVersionOrder indicates a comparison where the second version is not
// strictly newer than the first.
var ErrVersionOrder = errors.New("second version must be newer than the first")

// Change summaries shown to users. Changed rows get a comma-separated
// combination of the changed-default and changed-type summaries instead.
const (
	SummaryAdded   = "Configuration parameter added"
	SummaryRemoved = "Configuration parameter removed"

	summaryChangedDefault = "Changed default value"
	summaryChangedType    = "Changed variable type"
)

// Change is one parameter's difference between two versions. Old is nil
// for added parameters and New is nil for removed ones; changed rows carry
// both sides plus flags for which fields differ.
type Change struct {
	Name           string           `json:"name"`
	Summary        string           `json:"summary"`
	Old            *model.Parameter `json:"old,omitempty"`
	New            *model.Parameter `json:"new,omitempty"`
	DefaultChanged bool             `json:"default_changed,omitempty"`
	TypeChanged    bool             `json:"type_changed,omitempty"`
}

// Added reports whether the parameter exists only in the newer version.
func (c Change) Added() bool { return c.Old == nil }

// Removed reports whether the parameter exists only in the older version.
func (c Change) Removed() bool { return c.New == nil }

// Detail renders the old-to-new transition for changed rows, like
// "Default value: 4096 -> 65536". Added and removed rows have no detail.
func (c Change) Detail() string {
	if c.Added() || c.Removed() {
		return ""
	}
	var parts []string
	if c.DefaultChanged {
		parts = append(parts, fmt.Sprintf("Default value: %s -> %s", c.Old.BootVal, c.New.BootVal))
	}
	if c.TypeChanged {
		parts = append(parts, fmt.Sprintf("Variable type: %s -> %s", c.Old.VarType, c.New.VarType))
	}
	return strings.Join(parts, ", ")
}

// Result is the diff between two versions: every parameter that was
// added, removed, or changed, sorted by name. Parameters equal on both
// sides are not present.
type Result struct {
	From    model.Version `json:"from"`
	To      model.Version `json:"to"`
	Changes []Change      `json:"changes"`
}

// Stats are change counts for a Result. A row that changes both its
// default and its type counts once, under Updated.
type Stats struct {
	Added   int `json:"added"`
	Removed int `json:"removed"`
	Updated int `json:"updated"`
}

// Total is the number of rows the stats describe.
func (s Stats) Total() int { return s.Added + s.Removed + s.Updated }

// Stats counts the result's rows by classification.
func (r *Result) Stats() Stats {
	var s Stats
	for _, c := range r.Changes {
		switch {
		case c.Added():
			s.Added++
		case c.Removed():
			s.Removed++
		default:
			s.Updated++
		}
	}
	return s
}

// Compare diffs two snapshots. The newer snapshot must be a strictly
// newer major version, otherwise ErrVersionOrder. Alignment is an outer
// join over parameter names: each name is looked up on both sides and
// classified; names with identical default value and variable type are
// dropped from the result.
func Compare(older, newer *snapshot.Snapshot) (*Result, error) {
	if newer.Version <= older.Version {
		return nil, fmt.Errorf("%w: got %s then %s", ErrVersionOrder, older.Version, newer.Version)
	}

	a := byName(older.Parameters)
	b := byName(newer.Parameters)

	names := make([]string, 0, len(a)+len(b))
	for name := range a {
		names = append(names, name)
	}
	for name := range b {
		if _, ok := a[name]; !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	res := &Result{From: older.Version, To: newer.Version}
	for _, name := range names {
		pa, inOld := a[name]
		pb, inNew := b[name]
		switch {
		case !inOld:
			res.Changes = append(res.Changes, Change{Name: name, Summary: SummaryAdded, New: pb})
		case !inNew:
			res.Changes = append(res.Changes, Change{Name: name, Summary: SummaryRemoved, Old: pa})
		default:
			c := Change{
				Name:           name,
				Old:            pa,
				New:            pb,
				DefaultChanged: pa.BootVal != pb.BootVal,
				TypeChanged:    pa.VarType != pb.VarType,
			}
			if !c.DefaultChanged && !c.TypeChanged {
				continue
			}
			var parts []string
			if c.DefaultChanged {
				parts = append(parts, summaryChangedDefault)
			}
			if c.TypeChanged {
				parts = append(parts, summaryChangedType)
			}
			c.Summary = strings.Join(parts, ", ")
			res.Changes = append(res.Changes, c)
		}
	}
	return res, nil
}

func byName(params []model.Parameter) map[string]*model.Parameter {
	m := make(map[string]*model.Parameter, len(params))
	for i := range params {
		m[params[i].Name] = &params[i]
	}
	return m
}
