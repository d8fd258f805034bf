// Package conf parses postgresql.conf-style configuration text.
package conf

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Entry is one key/value pair from a configuration file.
type Entry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// File holds the parsed entries in input order plus every entry whose key
// occurs more than once. A key occurring N times contributes all N of its
// entries to Duplicates, so callers can show each offending line.
type File struct {
	Entries    []Entry `json:"entries"`
	Duplicates []Entry `json:"duplicates,omitempty"`
}

// Parse reads configuration text line by line. Everything from the first
// '#' to end of line is a comment. Lines that are empty after comment
// removal are skipped; the rest split on the first '='. A line without '='
// parses to a key equal to the whole line and an empty value rather than
// an error, so callers see the malformed line instead of losing it.
func Parse(r io.Reader) (*File, error) {
	f := &File{}
	seen := make(map[string]int)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, value, _ := strings.Cut(line, "=")
		e := Entry{Key: strings.TrimSpace(key), Value: strings.TrimSpace(value)}
		f.Entries = append(f.Entries, e)
		seen[e.Key]++
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	for _, e := range f.Entries {
		if seen[e.Key] > 1 {
			f.Duplicates = append(f.Duplicates, e)
		}
	}
	return f, nil
}

// ParseString parses configuration text held in memory.
func ParseString(s string) (*File, error) {
	return Parse(strings.NewReader(s))
}

// Values returns the entries as a key-to-value map. For duplicated keys the
// last occurrence wins, which matches how the server itself reads its
// configuration file.
func (f *File) Values() map[string]string {
	m := make(map[string]string, len(f.Entries))
	for _, e := range f.Entries {
		m[e.Key] = e.Value
	}
	return m
}
