package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/pgconfig/internal/config"
	"github.com/alfredjeanlab/pgconfig/internal/events"
	"github.com/alfredjeanlab/pgconfig/internal/extract"
	"github.com/alfredjeanlab/pgconfig/internal/model"
	"github.com/alfredjeanlab/pgconfig/internal/snapshot"
	"github.com/alfredjeanlab/pgconfig/internal/ui"
)

type extractSummary struct {
	Version        model.Version `json:"version"`
	Ref            string        `json:"ref"`
	ServerVersion  int           `json:"server_version_num"`
	ParameterCount int           `json:"parameter_count"`
	File           string        `json:"file"`
	ConfFile       string        `json:"conf_file,omitempty"`
}

var extractCmd = &cobra.Command{
	Use:     "extract",
	Short:   "Extract a parameter snapshot from a running server",
	GroupID: "snapshots",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dsnFlag, _ := cmd.Flags().GetString("dsn")
		profileName, _ := cmd.Flags().GetString("profile")
		promptPassword, _ := cmd.Flags().GetBool("password-prompt")
		noPrepare, _ := cmd.Flags().GetBool("no-prepare")
		writeConf, _ := cmd.Flags().GetBool("conf")

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		dsn := dsnFlag
		if dsn == "" && profileName != "" {
			p, err := lookupProfile(profileName)
			if err != nil {
				return err
			}
			dsn = p.DSN
		}
		if dsn == "" {
			dsn = activeProfileDSN()
		}
		if dsn == "" {
			dsn = cfg.DSN
		}
		if dsn == "" {
			return fmt.Errorf("no database configured: pass --dsn, configure a profile, or set PGCONFIG_DSN")
		}

		if promptPassword {
			pw, err := ui.ReadPassword("Password: ")
			if err != nil {
				return err
			}
			dsn, err = dsnWithPassword(dsn, pw)
			if err != nil {
				return err
			}
		}

		ext, err := extract.Open(dsn)
		if err != nil {
			return err
		}
		defer ext.Close()

		if !noPrepare {
			if err := ext.Prepare(); err != nil {
				return err
			}
		}

		snap, err := ext.BuildSnapshot(context.Background())
		if err != nil {
			return err
		}

		path, err := snapshot.WriteFile(dataDir, snap)
		if err != nil {
			return err
		}

		var confPath string
		if writeConf {
			confPath = filepath.Join(dataDir, "pg"+snap.Version.String()+".conf")
			f, err := os.Create(confPath)
			if err != nil {
				return err
			}
			if err := snapshot.WriteConf(f, snap); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
		}

		// Announce the snapshot so serving processes reload. Extraction
		// already succeeded, so a publish failure is only a warning.
		if cfg.NATSURL != "" {
			pub, err := events.NewNATSPublisher(cfg.NATSURL)
			if err != nil {
				fmt.Fprintf(os.Stderr, "warning: snapshot event not published: %v\n", err)
			} else {
				ev := events.SnapshotPublished{
					Version:        snap.Version,
					Ref:            snap.Ref,
					ServerVersion:  snap.ServerVersion,
					ParameterCount: len(snap.Parameters),
					File:           path,
				}
				if err := pub.Publish(context.Background(), events.TopicSnapshotPublished, ev); err != nil {
					fmt.Fprintf(os.Stderr, "warning: snapshot event not published: %v\n", err)
				}
				pub.Close()
			}
		}

		summary := extractSummary{
			Version:        snap.Version,
			Ref:            snap.Ref,
			ServerVersion:  snap.ServerVersion,
			ParameterCount: len(snap.Parameters),
			File:           path,
			ConfFile:       confPath,
		}
		if jsonOutput {
			printJSON(summary)
		} else {
			printExtractSummary(summary)
		}
		return nil
	},
}

// dsnWithPassword appends a password to a connection string, converting
// URL-form strings to keyword form first so the append is well defined.
func dsnWithPassword(dsn, password string) (string, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		kw, err := pq.ParseURL(dsn)
		if err != nil {
			return "", fmt.Errorf("parse connection url: %w", err)
		}
		dsn = kw
	}
	esc := strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(password)
	return dsn + " password='" + esc + "'", nil
}

func init() {
	extractCmd.Flags().String("dsn", "", "PostgreSQL connection string")
	extractCmd.Flags().String("profile", "", "named connection profile to use")
	extractCmd.Flags().BoolP("password-prompt", "W", false, "prompt for the database password")
	extractCmd.Flags().Bool("no-prepare", false, "skip creating the pgconfig schema before extracting")
	extractCmd.Flags().Bool("conf", false, "also write the postgresql.conf rendition of the snapshot")
}
