package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/alfredjeanlab/pgconfig/internal/conf"
	"github.com/alfredjeanlab/pgconfig/internal/diff"
	"github.com/alfredjeanlab/pgconfig/internal/ui"
)

// quietLogger keeps package logs below the error level out of command
// output.
func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

// printDiff lists one change per line, added in green, removed in red.
func printDiff(res *diff.Result) {
	width := 0
	for _, c := range res.Changes {
		if len(c.Name) > width {
			width = len(c.Name)
		}
	}
	for _, c := range res.Changes {
		switch {
		case c.Added():
			fmt.Println(ui.RenderAdded(fmt.Sprintf("+ %-*s  %s", width, c.Name, c.Summary)))
		case c.Removed():
			fmt.Println(ui.RenderRemoved(fmt.Sprintf("- %-*s  %s", width, c.Name, c.Summary)))
		default:
			fmt.Printf("~ %-*s  %s\n", width, c.Name, c.Detail())
		}
	}

	s := res.Stats()
	fmt.Printf("\n%d changes between PostgreSQL %s and %s: %d new, %d updated, %d removed\n",
		s.Total(), res.From, res.To, s.Added, s.Updated, s.Removed)
}

// printConfEntries lists parsed entries, then any duplicated keys in red.
func printConfEntries(f *conf.File) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tVALUE")
	for _, e := range f.Entries {
		fmt.Fprintf(w, "%s\t%s\n", e.Key, e.Value)
	}
	w.Flush()
	fmt.Printf("\n%d entries\n", len(f.Entries))

	if len(f.Duplicates) > 0 {
		fmt.Println()
		fmt.Printf("%d duplicate entries:\n", len(f.Duplicates))
		for _, e := range f.Duplicates {
			fmt.Println(ui.RenderRemoved(fmt.Sprintf("  %s = %s", e.Key, e.Value)))
		}
	}
}

func printExtractSummary(s extractSummary) {
	fmt.Printf("Version:     %s\n", s.Version)
	fmt.Printf("Server:      %d\n", s.ServerVersion)
	fmt.Printf("Ref:         %s\n", s.Ref)
	fmt.Printf("Parameters:  %d\n", s.ParameterCount)
	fmt.Printf("File:        %s\n", s.File)
	if s.ConfFile != "" {
		fmt.Printf("Conf:        %s\n", s.ConfFile)
	}
}
