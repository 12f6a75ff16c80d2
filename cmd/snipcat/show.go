package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aretw0/snipcat/pkg/core"
)

var showJSON bool

var showCmd = &cobra.Command{
	Use:   "show <category> <title>",
	Short: "Print one entry with its snippets and references",
	Long: `Print one entry. The title may also be given as its anchor
(e.g. "get-single-row-or-null"); matching is case-insensitive.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		svc, _, err := openService(context.Background())
		if err != nil {
			fatal("Error opening catalog", err)
		}

		entry, err := svc.GetEntry(args[0], args[1])
		if err != nil {
			fatal("Error reading entry", err)
		}

		out := cmd.OutOrStdout()

		if showJSON {
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(entry); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}

		printEntry(out, entry)
	},
}

func printEntry(out io.Writer, e core.Entry) {
	fmt.Fprintf(out, "### %s\n", e.Title)
	fmt.Fprintf(out, "(%s, #%s, %s:%d)\n", e.Category, e.Anchor, e.Document, e.Line)
	if e.Body != "" {
		fmt.Fprintf(out, "\n%s\n", e.Body)
	}
	for _, s := range e.Snippets {
		fmt.Fprintf(out, "\n```%s\n%s\n```\n", s.Language, s.Code)
	}
	if len(e.References) > 0 {
		fmt.Fprintln(out)
		for _, ref := range e.References {
			if ref.Marker != "" {
				fmt.Fprintf(out, "[%s] %s <%s>\n", ref.Marker, ref.Label, ref.URL)
				continue
			}
			fmt.Fprintf(out, "- %s <%s>\n", ref.Label, ref.URL)
		}
	}
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output in JSON format")
}
