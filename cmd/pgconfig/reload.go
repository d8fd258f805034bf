package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var reloadCmd = &cobra.Command{
	Use:     "reload",
	Short:   "Tell a running server to re-read its data directory",
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := adminClient(cmd).Reload(context.Background())
		if err != nil {
			return fmt.Errorf("reloading catalog: %w", err)
		}

		if jsonOutput {
			printJSON(res)
		} else {
			fmt.Printf("Catalog reloaded: %d versions\n", res.Versions)
		}
		return nil
	},
}

func init() {
	addServerFlags(reloadCmd)
}
