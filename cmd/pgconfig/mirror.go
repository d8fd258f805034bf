package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alfredjeanlab/pgconfig/internal/config"
	"github.com/alfredjeanlab/pgconfig/internal/mirror"
	"github.com/alfredjeanlab/pgconfig/internal/model"
	"github.com/spf13/cobra"
)

func parseVersionArgs(args []string) ([]model.Version, error) {
	versions := make([]model.Version, 0, len(args))
	for _, a := range args {
		v, err := model.ParseVersion(a)
		if err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, nil
}

// openMirrors builds one mirror per configured destination, S3 before
// git. push writes to all of them; pull reads from the first.
func openMirrors(ctx context.Context) ([]*mirror.Mirror, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var mirrors []*mirror.Mirror
	if cfg.S3Bucket != "" {
		store, err := mirror.NewS3Store(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3Endpoint)
		if err != nil {
			return nil, err
		}
		mirrors = append(mirrors, mirror.New(store, dataDir, cfg.MirrorPrefix, logger))
	}
	if cfg.GitRepo != "" {
		store := mirror.NewGitStore(cfg.GitRepo, cfg.GitBranch)
		mirrors = append(mirrors, mirror.New(store, dataDir, cfg.MirrorPrefix, logger))
	}
	if len(mirrors) == 0 {
		return nil, fmt.Errorf("mirroring is not configured: set PGCONFIG_S3_BUCKET or PGCONFIG_GIT_REPO")
	}
	return mirrors, nil
}

var mirrorCmd = &cobra.Command{
	Use:     "mirror",
	Short:   "Copy snapshots to and from an S3 bucket or git clone",
	GroupID: "snapshots",
}

var mirrorPushCmd = &cobra.Command{
	Use:   "push [version...]",
	Short: "Upload local snapshots (all supported versions by default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		versions, err := parseVersionArgs(args)
		if err != nil {
			return err
		}
		ctx := context.Background()
		mirrors, err := openMirrors(ctx)
		if err != nil {
			return err
		}
		var pushed []model.Version
		for _, m := range mirrors {
			pushed, err = m.Push(ctx, versions...)
			if err != nil {
				return err
			}
		}
		if jsonOutput {
			printJSON(pushed)
			return nil
		}
		fmt.Printf("pushed %d snapshots to %d destinations\n", len(pushed), len(mirrors))
		return nil
	},
}

var mirrorPullCmd = &cobra.Command{
	Use:   "pull [version...]",
	Short: "Download snapshots into the data directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		versions, err := parseVersionArgs(args)
		if err != nil {
			return err
		}
		ctx := context.Background()
		mirrors, err := openMirrors(ctx)
		if err != nil {
			return err
		}
		pulled, err := mirrors[0].Pull(ctx, versions...)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(pulled)
			return nil
		}
		fmt.Printf("pulled %d snapshots\n", len(pulled))
		return nil
	},
}

func init() {
	mirrorCmd.AddCommand(mirrorPushCmd)
	mirrorCmd.AddCommand(mirrorPullCmd)
}
