// Package mirror copies snapshot files between a local data directory and a
// remote object store, so several web instances can serve the same catalog.
package mirror

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"

	"github.com/alfredjeanlab/pgconfig/internal/model"
	"github.com/alfredjeanlab/pgconfig/internal/snapshot"
)

// ErrNotFound is returned by Store.Get when the object does not exist.
var ErrNotFound = errors.New("object not found")

// Store is the remote side of a mirror (S3 or a test fake).
type Store interface {
	Put(ctx context.Context, key string, data []byte) error
	// Get returns the object contents, or an error wrapping ErrNotFound
	// when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
}

// Mirror pushes and pulls the per-version snapshot files. Only the supported
// versions are mirrored; extra files in the data directory are left alone.
type Mirror struct {
	store  Store
	dir    string
	prefix string
	logger *slog.Logger
}

func New(store Store, dir, prefix string, logger *slog.Logger) *Mirror {
	return &Mirror{
		store:  store,
		dir:    dir,
		prefix: prefix,
		logger: logger,
	}
}

func (m *Mirror) key(v model.Version) string {
	return path.Join(m.prefix, snapshot.Filename(v))
}

// Push uploads local snapshot files to the store. With no arguments every
// supported version is considered; versions without a local snapshot are
// skipped. Each file is parsed before upload so a corrupt snapshot fails the
// push instead of propagating.
func (m *Mirror) Push(ctx context.Context, versions ...model.Version) ([]model.Version, error) {
	if len(versions) == 0 {
		versions = model.Supported()
	}
	var pushed []model.Version
	for _, v := range versions {
		file := snapshot.Path(m.dir, v)
		data, err := os.ReadFile(file)
		if errors.Is(err, fs.ErrNotExist) {
			m.logger.Warn("no local snapshot, skipping", "version", v)
			continue
		}
		if err != nil {
			return pushed, fmt.Errorf("read %s: %w", file, err)
		}
		snap, err := snapshot.Read(bytes.NewReader(data))
		if err != nil {
			return pushed, fmt.Errorf("parse %s: %w", file, err)
		}
		if snap.Version != v {
			return pushed, fmt.Errorf("%s: header claims version %s", file, snap.Version)
		}
		if err := m.store.Put(ctx, m.key(v), data); err != nil {
			return pushed, fmt.Errorf("push %s: %w", m.key(v), err)
		}
		m.logger.Info("snapshot pushed", "version", v, "key", m.key(v), "parameters", len(snap.Parameters))
		pushed = append(pushed, v)
	}
	return pushed, nil
}

// Pull downloads remote snapshot files into the local data directory. With no
// arguments every supported version is considered; versions missing from the
// store are skipped. Downloaded files are parsed before being written so a
// corrupt object cannot replace a good local file.
func (m *Mirror) Pull(ctx context.Context, versions ...model.Version) ([]model.Version, error) {
	if len(versions) == 0 {
		versions = model.Supported()
	}
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", m.dir, err)
	}

	var pulled []model.Version
	for _, v := range versions {
		data, err := m.store.Get(ctx, m.key(v))
		if errors.Is(err, ErrNotFound) {
			m.logger.Warn("no remote snapshot, skipping", "version", v, "key", m.key(v))
			continue
		}
		if err != nil {
			return pulled, fmt.Errorf("pull %s: %w", m.key(v), err)
		}
		snap, err := snapshot.Read(bytes.NewReader(data))
		if err != nil {
			return pulled, fmt.Errorf("parse %s: %w", m.key(v), err)
		}
		if snap.Version != v {
			return pulled, fmt.Errorf("%s: header claims version %s", m.key(v), snap.Version)
		}
		file := snapshot.Path(m.dir, v)
		if err := os.WriteFile(file, data, 0o644); err != nil {
			return pulled, fmt.Errorf("write %s: %w", file, err)
		}
		m.logger.Info("snapshot pulled", "version", v, "key", m.key(v), "parameters", len(snap.Parameters))
		pulled = append(pulled, v)
	}
	return pulled, nil
}
