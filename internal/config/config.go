package config

import (
	"fmt"
	"os"
)

type Config struct {
	HTTPAddr   string // PGCONFIG_HTTP_ADDR (default ":8080")
	DataDir    string // PGCONFIG_DATA_DIR (default "data"; snapshot files live here)
	NATSURL    string // PGCONFIG_NATS_URL (optional, empty = no events)
	AdminToken string // PGCONFIG_ADMIN_TOKEN (optional, empty = reload endpoint unauthenticated)
	DSN        string // PGCONFIG_DSN (optional; extract fallback when no --dsn/--profile)

	// Mirror settings
	S3Bucket     string // PGCONFIG_S3_BUCKET (enables the S3 mirror when set)
	S3Endpoint   string // PGCONFIG_S3_ENDPOINT (custom endpoint for MinIO)
	S3Region     string // PGCONFIG_S3_REGION (default "us-east-1")
	GitRepo      string // PGCONFIG_GIT_REPO (local clone; enables the git mirror when set)
	GitBranch    string // PGCONFIG_GIT_BRANCH (default "main")
	MirrorPrefix string // PGCONFIG_MIRROR_PREFIX (default "snapshots"; path under the bucket or repo)
}

func Load() (*Config, error) {
	c := &Config{
		HTTPAddr:     envOrDefault("PGCONFIG_HTTP_ADDR", ":8080"),
		DataDir:      envOrDefault("PGCONFIG_DATA_DIR", "data"),
		NATSURL:      os.Getenv("PGCONFIG_NATS_URL"),
		AdminToken:   os.Getenv("PGCONFIG_ADMIN_TOKEN"),
		DSN:          os.Getenv("PGCONFIG_DSN"),
		S3Bucket:     os.Getenv("PGCONFIG_S3_BUCKET"),
		S3Endpoint:   os.Getenv("PGCONFIG_S3_ENDPOINT"),
		S3Region:     envOrDefault("PGCONFIG_S3_REGION", "us-east-1"),
		GitRepo:      os.Getenv("PGCONFIG_GIT_REPO"),
		GitBranch:    envOrDefault("PGCONFIG_GIT_BRANCH", "main"),
		MirrorPrefix: envOrDefault("PGCONFIG_MIRROR_PREFIX", "snapshots"),
	}
	if c.S3Endpoint != "" && c.S3Bucket == "" {
		return nil, fmt.Errorf("PGCONFIG_S3_ENDPOINT is set but PGCONFIG_S3_BUCKET is not")
	}
	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
