package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alfredjeanlab/pgconfig/internal/client"
	"github.com/spf13/cobra"
)

func defaultServerURL() string {
	if s := os.Getenv("PGCONFIG_SERVER_URL"); s != "" {
		return s
	}
	return "http://localhost:8080"
}

func addServerFlags(cmd *cobra.Command) {
	cmd.Flags().String("server", defaultServerURL(), "base URL of the running server")
	cmd.Flags().String("token", "", "admin bearer token (defaults to PGCONFIG_ADMIN_TOKEN)")
}

func adminClient(cmd *cobra.Command) *client.Client {
	serverURL, _ := cmd.Flags().GetString("server")
	token, _ := cmd.Flags().GetString("token")
	if token == "" {
		token = os.Getenv("PGCONFIG_ADMIN_TOKEN")
	}
	return client.New(serverURL, token)
}

var healthCmd = &cobra.Command{
	Use:     "health",
	Short:   "Check the health of a running server",
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := adminClient(cmd).Health(context.Background())
		if err != nil {
			return fmt.Errorf("checking health: %w", err)
		}

		if jsonOutput {
			printJSON(h)
		} else {
			fmt.Printf("Health: %s (%d versions loaded)\n", h.Status, h.Versions)
		}

		if h.Status != "ok" {
			return fmt.Errorf("unhealthy: %s", h.Status)
		}
		return nil
	},
}

func init() {
	addServerFlags(healthCmd)
}
