package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/snipcat"
)

var (
	lintLinks bool
	lintJSON  bool
)

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Check the structure of the catalog",
	Long: `Check that every TOC link has a heading, every heading is in the TOC,
fences are closed, reference markers are defined and entry titles are
unique per category. Exits with status 1 when any error is found.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		svc, cfg, err := openService(ctx)
		if err != nil {
			fatal("Error opening catalog", err)
		}

		opts := cfg.LintOptions()
		opts.Logger = slog.Default()
		if lintLinks {
			opts.CheckLinks = true
		}

		report, err := snipcat.Lint(ctx, svc, opts)
		if err != nil {
			fatal("Error linting catalog", err)
		}

		out := cmd.OutOrStdout()
		if lintJSON {
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(report); err != nil {
				fatal("Error encoding JSON", err)
			}
		} else {
			for _, f := range report.Findings {
				fmt.Fprintln(out, f.String())
			}
			fmt.Fprintf(out, "%d documents, %d errors, %d warnings\n",
				report.Documents, report.Errors(), report.Warnings())
		}

		if !report.OK() {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(lintCmd)
	lintCmd.Flags().BoolVar(&lintLinks, "links", false, "Also check that external links are reachable")
	lintCmd.Flags().BoolVar(&lintJSON, "json", false, "Output in JSON format")
}
