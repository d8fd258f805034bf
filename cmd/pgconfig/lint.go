package main

import (
	"io"
	"os"

	"github.com/alfredjeanlab/pgconfig/internal/conf"
	"github.com/spf13/cobra"
)

var lintCmd = &cobra.Command{
	Use:     "lint <file>",
	Short:   "Parse a configuration file and report duplicate entries",
	GroupID: "inspect",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r := io.Reader(os.Stdin)
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			r = f
		}

		parsed, err := conf.Parse(r)
		if err != nil {
			return err
		}

		if jsonOutput {
			printJSON(parsed)
		} else {
			printConfEntries(parsed)
		}

		// A duplicated key means the file sets the same parameter twice;
		// the server would silently keep the last occurrence.
		if len(parsed.Duplicates) > 0 {
			os.Exit(1)
		}
		return nil
	},
}
