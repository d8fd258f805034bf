// Package snapshot reads and writes per-version parameter snapshots.
//
// A snapshot file is JSONL: one header record followed by one parameter
// record per line, named pg<major>.jsonl under the data directory.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/alfredjeanlab/pgconfig/internal/model"
)

// Snapshot is the full parameter table for one PostgreSQL major version.
type Snapshot struct {
	Version       model.Version
	Ref           string
	ServerVersion int // full server_version_num, e.g. 170002
	CreatedAt     time.Time
	Parameters    []model.Parameter
}

// header is the first JSONL record in a snapshot file.
type header struct {
	Type           string        `json:"type"`
	Ref            string        `json:"ref,omitempty"`
	Version        model.Version `json:"version"`
	ServerVersion  int           `json:"server_version_num,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	ParameterCount int           `json:"parameter_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// rawRecord is the decode-side counterpart of record.
type rawRecord struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Write emits s as JSONL: a header line, then one parameter record per
// line in name order.
func Write(w io.Writer, s *Snapshot) error {
	params := make([]model.Parameter, len(s.Parameters))
	copy(params, s.Parameters)
	sort.Slice(params, func(i, j int) bool { return params[i].Name < params[j].Name })

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(header{
		Type:           "header",
		Ref:            s.Ref,
		Version:        s.Version,
		ServerVersion:  s.ServerVersion,
		CreatedAt:      s.CreatedAt.UTC(),
		ParameterCount: len(params),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}
	for i := range params {
		if err := enc.Encode(record{Type: "parameter", Data: params[i]}); err != nil {
			return fmt.Errorf("encode parameter %s: %w", params[i].Name, err)
		}
	}
	return nil
}

// Read parses a snapshot written by Write. The header must come first.
// Unknown record types are skipped so files from newer writers stay
// readable.
func Read(r io.Reader) (*Snapshot, error) {
	dec := json.NewDecoder(r)

	var h header
	if err := dec.Decode(&h); err != nil {
		return nil, fmt.Errorf("decode header: %w", err)
	}
	if h.Type != "header" {
		return nil, fmt.Errorf("first record is %q, want header", h.Type)
	}

	s := &Snapshot{
		Version:       h.Version,
		Ref:           h.Ref,
		ServerVersion: h.ServerVersion,
		CreatedAt:     h.CreatedAt,
		Parameters:    make([]model.Parameter, 0, h.ParameterCount),
	}
	for {
		var rec rawRecord
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("decode record: %w", err)
		}
		if rec.Type != "parameter" {
			continue
		}
		var p model.Parameter
		if err := json.Unmarshal(rec.Data, &p); err != nil {
			return nil, fmt.Errorf("decode parameter: %w", err)
		}
		s.Parameters = append(s.Parameters, p)
	}
	return s, nil
}

// Path returns the canonical snapshot file path for a version under dir.
func Path(dir string, v model.Version) string {
	return filepath.Join(dir, Filename(v))
}

// Filename returns the snapshot file name for a version, e.g. pg17.jsonl.
func Filename(v model.Version) string {
	return fmt.Sprintf("pg%s.jsonl", v)
}

// WriteFile writes the snapshot to its canonical path under dir and
// returns that path.
func WriteFile(dir string, s *Snapshot) (string, error) {
	path := Path(dir, s.Version)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create snapshot: %w", err)
	}
	if err := Write(f, s); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close snapshot: %w", err)
	}
	return path, nil
}

// ReadFile loads the snapshot for a version from dir. The open error is
// returned unwrapped so callers can test for fs.ErrNotExist; a header
// that disagrees with the file name is corruption, not absence.
func ReadFile(dir string, v model.Version) (*Snapshot, error) {
	f, err := os.Open(Path(dir, v))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", Path(dir, v), err)
	}
	if s.Version != v {
		return nil, fmt.Errorf("snapshot %s holds version %s", Path(dir, v), s.Version)
	}
	return s, nil
}

// WriteConf renders the plain-text default configuration: one
// default_config_line per parameter, comment-free, the way the settings
// would appear in a freshly generated postgresql.conf.
func WriteConf(w io.Writer, s *Snapshot) error {
	for i := range s.Parameters {
		if _, err := fmt.Fprintln(w, s.Parameters[i].DefaultConfigLine); err != nil {
			return fmt.Errorf("write config line: %w", err)
		}
	}
	return nil
}
