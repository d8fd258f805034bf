package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alfredjeanlab/pgconfig/internal/catalog"
	"github.com/alfredjeanlab/pgconfig/internal/config"
	"github.com/alfredjeanlab/pgconfig/internal/events"
	"github.com/alfredjeanlab/pgconfig/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Start the configuration tracking web server",
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		// Load configuration.
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		// Load the snapshot catalog. Missing snapshot files are warned
		// about during the load and served as empty versions.
		cat, err := catalog.Open(cfg.DataDir, logger)
		if err != nil {
			return err
		}

		// Create event publisher.
		var publisher events.Publisher
		if cfg.NATSURL != "" {
			pub, err := events.NewNATSPublisher(cfg.NATSURL)
			if err != nil {
				return err
			}
			publisher = pub
			logger.Info("events enabled", "nats_url", cfg.NATSURL)
		} else {
			publisher = &events.NoopPublisher{}
			logger.Info("events disabled (PGCONFIG_NATS_URL not set)")
		}

		srv := server.New(cat, publisher, cfg.AdminToken, logger)

		// Start HTTP server.
		httpServer := &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: srv.NewHTTPHandler(),
		}

		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server error", "err", err)
			}
		}()

		// Reload the catalog whenever an extractor publishes a snapshot.
		var subCancel func()
		if cfg.NATSURL != "" {
			sub, err := events.NewNATSSubscriber(cfg.NATSURL)
			if err != nil {
				logger.Error("failed to create snapshot subscriber", "err", err)
			} else {
				msgs, cancel, err := sub.Subscribe(events.TopicSnapshotPublished)
				if err != nil {
					logger.Error("failed to subscribe to snapshot events", "err", err)
					sub.Close()
				} else {
					subCancel = func() {
						cancel()
						sub.Close()
					}
					go func() {
						for msg := range msgs {
							var ev events.SnapshotPublished
							if err := json.Unmarshal(msg, &ev); err != nil {
								logger.Warn("malformed snapshot event", "err", err)
								continue
							}
							logger.Info("snapshot event received", "version", ev.Version, "ref", ev.Ref)
							if err := srv.Reload(context.Background(), "event"); err != nil {
								logger.Error("reload after snapshot event failed", "err", err)
							}
						}
					}()
					logger.Info("snapshot subscriber started")
				}
			}
		}

		logger.Info("pgconfig server started",
			"http_addr", cfg.HTTPAddr,
			"data_dir", cfg.DataDir,
			"versions", len(cat.Loaded()),
		)

		// Wait for SIGINT or SIGTERM; SIGHUP reloads the catalog in place.
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
		for {
			sig := <-sigCh
			if sig == syscall.SIGHUP {
				logger.Info("received SIGHUP, reloading catalog")
				if err := srv.Reload(context.Background(), "sighup"); err != nil {
					logger.Error("catalog reload failed", "err", err)
				}
				continue
			}
			logger.Info("received signal, shutting down", "signal", sig)
			break
		}

		// Graceful shutdown.
		if subCancel != nil {
			subCancel()
			logger.Info("snapshot subscriber stopped")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "err", err)
		}
		logger.Info("HTTP server stopped")

		if err := publisher.Close(); err != nil {
			logger.Error("error closing publisher", "err", err)
		}

		logger.Info("shutdown complete")
		return nil
	},
}
