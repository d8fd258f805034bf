package diff

import (
	"sort"

	"github.com/alfredjeanlab/pgconfig/internal/conf"
	"github.com/alfredjeanlab/pgconfig/internal/model"
)

// CustomEntry is one row of a custom-configuration comparison.
type CustomEntry struct {
	Name    string `json:"name"`
	Value   string `json:"value"`
	Default string `json:"default,omitempty"`
}

// CustomResult classifies a submitted configuration against one version's
// defaults. Duplicates describe the submitted file itself and are
// reported alongside the comparison, never folded into it.
type CustomResult struct {
	Version    model.Version `json:"version"`
	Modified   []CustomEntry `json:"modified,omitempty"`
	Unknown    []CustomEntry `json:"unknown,omitempty"`
	AtDefault  int           `json:"at_default"`
	Duplicates []conf.Entry  `json:"duplicates,omitempty"`
}

// CompareCustom classifies the entries of a submitted configuration
// against a version's default entries. Both sides are configuration-file
// text, so values compare under the same quoting rules. For keys the
// submission repeats, the last occurrence wins, which is how the server
// itself reads its configuration file.
//
// Entries matching their default are dropped; recognized parameters the
// submission never mentions are only counted, as AtDefault.
func CompareCustom(v model.Version, defaults, submitted *conf.File) *CustomResult {
	def := defaults.Values()
	sub := submitted.Values()

	names := make([]string, 0, len(sub))
	for name := range sub {
		names = append(names, name)
	}
	sort.Strings(names)

	res := &CustomResult{Version: v, Duplicates: submitted.Duplicates}
	for _, name := range names {
		value := sub[name]
		dv, known := def[name]
		switch {
		case !known:
			res.Unknown = append(res.Unknown, CustomEntry{Name: name, Value: value})
		case value != dv:
			res.Modified = append(res.Modified, CustomEntry{Name: name, Value: value, Default: dv})
		}
	}
	for name := range def {
		if _, ok := sub[name]; !ok {
			res.AtDefault++
		}
	}
	return res
}
