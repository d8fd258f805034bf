package main

import (
	"fmt"
	"os"

	"github.com/alfredjeanlab/pgconfig/internal/catalog"
	"github.com/alfredjeanlab/pgconfig/internal/model"
	"github.com/spf13/cobra"
)

var diffCmd = &cobra.Command{
	Use:     "diff <older> <newer>",
	Short:   "Compare default parameters between two versions",
	GroupID: "inspect",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		older, err := model.ParseVersion(args[0])
		if err != nil {
			return err
		}
		newer, err := model.ParseVersion(args[1])
		if err != nil {
			return err
		}

		cat, err := catalog.Open(dataDir, quietLogger())
		if err != nil {
			return err
		}
		for _, v := range []model.Version{older, newer} {
			if !cat.Has(v) {
				fmt.Fprintf(os.Stderr, "warning: no snapshot for version %s under %s, comparing against an empty table\n", v, dataDir)
			}
		}

		res, err := cat.Compare(older, newer)
		if err != nil {
			return err
		}

		if jsonOutput {
			printJSON(res)
		} else {
			printDiff(res)
		}
		return nil
	},
}
