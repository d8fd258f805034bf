// Package catalog keeps every supported version's parameter table in
// memory and answers all read traffic from there.
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"sync"

	"github.com/alfredjeanlab/pgconfig/internal/conf"
	"github.com/alfredjeanlab/pgconfig/internal/diff"
	"github.com/alfredjeanlab/pgconfig/internal/model"
	"github.com/alfredjeanlab/pgconfig/internal/snapshot"
)

// Catalog serves read-only parameter tables loaded from snapshot files.
// Reads take the read lock; the only mutation is Reload, which swaps in a
// freshly loaded table set. Reload happens at startup and then only on
// explicit request: the admin endpoint, SIGHUP, or a snapshot-published
// event. Nothing reloads behind the reader's back.
type Catalog struct {
	dir    string
	logger *slog.Logger

	mu        sync.RWMutex
	snapshots map[model.Version]*snapshot.Snapshot
}

// Open loads every supported version's snapshot from dir. A version with
// no snapshot file is logged and served as an empty table; any other read
// failure aborts the open.
func Open(dir string, logger *slog.Logger) (*Catalog, error) {
	c := &Catalog{dir: dir, logger: logger}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// Dir returns the data directory snapshots are loaded from.
func (c *Catalog) Dir() string { return c.dir }

// Reload re-reads all snapshot files and replaces the in-memory tables in
// one swap. Concurrent readers keep the tables they already hold.
func (c *Catalog) Reload() error {
	loaded := make(map[model.Version]*snapshot.Snapshot)
	for _, v := range model.Supported() {
		s, err := snapshot.ReadFile(c.dir, v)
		if errors.Is(err, fs.ErrNotExist) {
			c.logger.Warn("no snapshot for version, serving empty table",
				"version", v, "path", snapshot.Path(c.dir, v))
			continue
		}
		if err != nil {
			return fmt.Errorf("load snapshot for version %s: %w", v, err)
		}
		loaded[v] = s
	}
	c.mu.Lock()
	c.snapshots = loaded
	c.mu.Unlock()
	c.logger.Info("catalog loaded", "versions", len(loaded), "dir", c.dir)
	return nil
}

// Snapshot returns the table for a version. Versions without a loaded
// snapshot come back as an empty table: absence of data, not an error.
// Callers must treat the result as read-only.
func (c *Catalog) Snapshot(v model.Version) *snapshot.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if s, ok := c.snapshots[v]; ok {
		return s
	}
	return &snapshot.Snapshot{Version: v}
}

// Has reports whether a snapshot is loaded for v.
func (c *Catalog) Has(v model.Version) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.snapshots[v]
	return ok
}

// Loaded returns the versions with data, oldest first.
func (c *Catalog) Loaded() []model.Version {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var versions []model.Version
	for _, v := range model.Supported() {
		if _, ok := c.snapshots[v]; ok {
			versions = append(versions, v)
		}
	}
	return versions
}

// Lookup finds one parameter in one version.
func (c *Catalog) Lookup(v model.Version, name string) (*model.Parameter, bool) {
	s := c.Snapshot(v)
	for i := range s.Parameters {
		if s.Parameters[i].Name == name {
			return &s.Parameters[i], true
		}
	}
	return nil, false
}

// ParameterNames returns the sorted union of parameter names across all
// loaded versions.
func (c *Catalog) ParameterNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	seen := make(map[string]struct{})
	for _, s := range c.snapshots {
		for i := range s.Parameters {
			seen[s.Parameters[i].Name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Compare diffs two loaded versions. Errors are invalid-argument only:
// diff.ErrVersionOrder when newer is not strictly newer.
func (c *Catalog) Compare(older, newer model.Version) (*diff.Result, error) {
	return diff.Compare(c.Snapshot(older), c.Snapshot(newer))
}

// CompareCustom classifies submitted configuration text against a
// version's defaults.
func (c *Catalog) CompareCustom(v model.Version, submitted *conf.File) (*diff.CustomResult, error) {
	defaults, err := c.DefaultEntries(v)
	if err != nil {
		return nil, err
	}
	return diff.CompareCustom(v, defaults, submitted), nil
}

// DefaultEntries renders a version's default configuration lines and
// parses them back, so the default values live in the same quoting domain
// as user-submitted configuration text.
func (c *Catalog) DefaultEntries(v model.Version) (*conf.File, error) {
	var buf bytes.Buffer
	if err := snapshot.WriteConf(&buf, c.Snapshot(v)); err != nil {
		return nil, fmt.Errorf("render defaults for %s: %w", v, err)
	}
	f, err := conf.Parse(&buf)
	if err != nil {
		return nil, fmt.Errorf("parse defaults for %s: %w", v, err)
	}
	return f, nil
}

// HistoryEntry is one version's view of a parameter. Empty fields mean
// the parameter does not exist in that version.
type HistoryEntry struct {
	Version model.Version
	BootVal string
	VarType string
}

// History describes one parameter across every supported version.
// Details is that parameter's record in the newest supported version, nil
// when it no longer exists there.
type History struct {
	Name    string
	Details *model.Parameter
	Entries []HistoryEntry
}

// History collects a parameter's default value and type across all
// supported versions, oldest first.
func (c *Catalog) History(name string) *History {
	h := &History{Name: name}
	for _, v := range model.Supported() {
		e := HistoryEntry{Version: v}
		if p, ok := c.Lookup(v, name); ok {
			e.BootVal = p.BootValDisplay
			e.VarType = p.VarType.String()
			if v == model.Latest() {
				h.Details = p
			}
		}
		h.Entries = append(h.Entries, e)
	}
	return h
}
