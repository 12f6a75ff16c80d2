package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/snipcat/pkg/lint"
)

var diffJSON bool

var diffCmd = &cobra.Command{
	Use:   "diff <a> <b>",
	Short: "Compare the entries of two variants of the catalog",
	Long: `Compare two documents by ID (e.g. README and README.ja) and list the
entries found in only one of them or whose content differs.
Exits with status 1 when the variants diverge.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		svc, _, err := openService(context.Background())
		if err != nil {
			fatal("Error opening catalog", err)
		}

		a, err := svc.Document(args[0])
		if err != nil {
			fatal("Error reading document", err)
		}
		b, err := svc.Document(args[1])
		if err != nil {
			fatal("Error reading document", err)
		}

		c := lint.Compare(a, b)
		out := cmd.OutOrStdout()

		if diffJSON {
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(c); err != nil {
				fatal("Error encoding JSON", err)
			}
		} else {
			for _, k := range c.OnlyInA {
				fmt.Fprintf(out, "- %s\n", k)
			}
			for _, k := range c.OnlyInB {
				fmt.Fprintf(out, "+ %s\n", k)
			}
			for _, k := range c.Changed {
				fmt.Fprintf(out, "~ %s\n", k)
			}
		}

		if !c.Identical() {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(diffCmd)
	diffCmd.Flags().BoolVar(&diffJSON, "json", false, "Output in JSON format")
}
