package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/snipcat/pkg/core"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list [category]",
	Short: "List entries, optionally of a single category",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc, _, err := openService(context.Background())
		if err != nil {
			fatal("Error opening catalog", err)
		}

		categories := svc.Catalog().Categories()
		if len(args) == 1 {
			cat, ok := svc.Catalog().Category(args[0])
			if !ok {
				fatal("Error listing entries", fmt.Errorf("category %q: %w", args[0], core.ErrNotFound))
			}
			categories = []core.Category{cat}
		}

		out := cmd.OutOrStdout()

		if listJSON {
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(categories); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}

		for _, cat := range categories {
			fmt.Fprintln(out, cat.Name)
			for _, e := range cat.Entries {
				fmt.Fprintf(out, "  %s  #%s\n", e.Title, e.Anchor)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
}
