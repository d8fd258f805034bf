package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/alfredjeanlab/pgconfig/internal/model"
	"github.com/alfredjeanlab/pgconfig/internal/snapshot"
	"github.com/spf13/cobra"
)

type versionStatus struct {
	Version    model.Version `json:"version"`
	Present    bool          `json:"present"`
	Ref        string        `json:"ref,omitempty"`
	Parameters int           `json:"parameters,omitempty"`
	CreatedAt  *time.Time    `json:"created_at,omitempty"`
}

type versionsReport struct {
	Versions []versionStatus   `json:"versions"`
	Aliases  map[string]string `json:"aliases"`
}

var versionsCmd = &cobra.Command{
	Use:     "versions",
	Short:   "List supported versions and their snapshots",
	GroupID: "snapshots",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var rows []versionStatus
		for _, v := range model.Supported() {
			row := versionStatus{Version: v}
			s, err := snapshot.ReadFile(dataDir, v)
			switch {
			case errors.Is(err, fs.ErrNotExist):
			case err != nil:
				return err
			default:
				row.Present = true
				row.Ref = s.Ref
				row.Parameters = len(s.Parameters)
				t := s.CreatedAt
				row.CreatedAt = &t
			}
			rows = append(rows, row)
		}

		if jsonOutput {
			printJSON(versionsReport{Versions: rows, Aliases: model.Aliases()})
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "VERSION\tSNAPSHOT\tREF\tPARAMETERS\tCREATED")
		for _, row := range rows {
			if !row.Present {
				fmt.Fprintf(w, "%s\tmissing\t\t\t\n", row.Version)
				continue
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
				row.Version,
				snapshot.Filename(row.Version),
				row.Ref,
				row.Parameters,
				row.CreatedAt.Format("2006-01-02 15:04:05"),
			)
		}
		w.Flush()

		aliases := model.Aliases()
		keys := make([]string, 0, len(aliases))
		for k := range aliases {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Println()
		fmt.Println("Aliases:")
		for _, k := range keys {
			fmt.Printf("  %s -> %s\n", k, aliases[k])
		}
		return nil
	},
}
