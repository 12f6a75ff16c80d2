package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var categoriesJSON bool

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the categories of the catalog",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		svc, _, err := openService(context.Background())
		if err != nil {
			fatal("Error opening catalog", err)
		}

		names := svc.ListCategories()
		out := cmd.OutOrStdout()

		if categoriesJSON {
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(names); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}

		for _, name := range names {
			fmt.Fprintf(out, "%s (%d)\n", name, len(svc.ListEntries(name)))
		}
	},
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
	categoriesCmd.Flags().BoolVar(&categoriesJSON, "json", false, "Output in JSON format")
}
