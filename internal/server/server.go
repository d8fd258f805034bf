// Package server is the pgconfig web application: parameter history pages,
// version-to-version comparisons, and custom configuration reviews rendered
// from the snapshot catalog.
package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alfredjeanlab/pgconfig/internal/catalog"
	"github.com/alfredjeanlab/pgconfig/internal/events"
	"github.com/alfredjeanlab/pgconfig/internal/model"
)

// defaultParam is the parameter the bare /param route lands on.
const defaultParam = "max_parallel_workers_per_gather"

// Server renders the catalog over HTTP.
type Server struct {
	catalog    *catalog.Catalog
	publisher  events.Publisher
	logger     *slog.Logger
	adminToken string
}

// New returns a Server backed by the given catalog and publisher. When
// adminToken is non-empty, POST /admin/reload requires it as a bearer token.
func New(cat *catalog.Catalog, pub events.Publisher, adminToken string, logger *slog.Logger) *Server {
	catalogVersions.Set(float64(len(cat.Loaded())))
	return &Server{
		catalog:    cat,
		publisher:  pub,
		logger:     logger,
		adminToken: adminToken,
	}
}

// defaultChangesPath is where version-less or invalid comparison requests
// land: the two newest supported versions.
func (s *Server) defaultChangesPath() string {
	to := model.Latest()
	return fmt.Sprintf("/param/change/%s/%s", to-1, to)
}

// Reload re-reads the snapshot directory and publishes a catalog.reloaded
// event. The publish is best-effort; a failure is logged, not returned.
func (s *Server) Reload(ctx context.Context, trigger string) error {
	if err := s.catalog.Reload(); err != nil {
		return err
	}
	versions := len(s.catalog.Loaded())
	reloadsTotal.Inc()
	catalogVersions.Set(float64(versions))

	err := s.publisher.Publish(ctx, events.TopicCatalogReloaded, events.CatalogReloaded{
		Versions: versions,
		Trigger:  trigger,
	})
	if err != nil {
		s.logger.Warn("failed to publish reload event", "trigger", trigger, "error", err)
	}
	s.logger.Info("catalog reloaded", "trigger", trigger, "versions", versions)
	return nil
}
