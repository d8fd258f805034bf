package events

import (
	"context"

	"github.com/alfredjeanlab/pgconfig/internal/model"
)

// Event topic constants
const (
	TopicSnapshotPublished = "pgconfig.snapshot.published"
	TopicCatalogReloaded   = "pgconfig.catalog.reloaded"
)

// Event types

// SnapshotPublished announces a freshly written snapshot. Serving
// processes that mirror the data directory reload their catalog when they
// see one.
type SnapshotPublished struct {
	Version        model.Version `json:"version"`
	Ref            string        `json:"ref"`
	ServerVersion  int           `json:"server_version_num,omitempty"`
	ParameterCount int           `json:"parameter_count"`
	File           string        `json:"file"`
}

// CatalogReloaded reports that a serving process swapped in fresh tables.
type CatalogReloaded struct {
	Versions int    `json:"versions"`
	Trigger  string `json:"trigger"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
