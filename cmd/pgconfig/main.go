package main

import (
	"os"

	"github.com/alfredjeanlab/pgconfig/internal/ui"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	jsonOutput bool
	noColor    bool
)

func defaultDataDir() string {
	if s := os.Getenv("PGCONFIG_DATA_DIR"); s != "" {
		return s
	}
	return "data"
}

var rootCmd = &cobra.Command{
	Use:   "pgconfig <command>",
	Short: "Track PostgreSQL server configuration parameters across versions",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor || !ui.ShouldUseColor() {
			ui.ForceNoColor()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", defaultDataDir(), "directory holding snapshot files")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddGroup(
		&cobra.Group{ID: "snapshots", Title: "Snapshots:"},
		&cobra.Group{ID: "inspect", Title: "Inspect:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	cobra.EnableCommandSorting = false
	rootCmd.SetHelpFunc(colorizedHelpFunc())

	// Snapshots
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(versionsCmd)
	rootCmd.AddCommand(mirrorCmd)

	// Inspect
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(lintCmd)

	// System
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(reloadCmd)
	rootCmd.AddCommand(profileCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
