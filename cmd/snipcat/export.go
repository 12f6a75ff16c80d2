package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aretw0/snipcat"
)

var exportCmd = &cobra.Command{
	Use:   "export --db <file>",
	Short: "Write the catalog into a SQLite snapshot",
	Long: `Parse every document of the catalog directory and store it, with its
entries, snippets and references, in a SQLite database. Other commands read
the snapshot back with --db.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if dbPath == "" {
			fatal("Error exporting catalog", fmt.Errorf("--db is required"))
		}

		root, err := catalogRoot()
		if err != nil {
			fatal("Error resolving catalog root", err)
		}
		cfg, err := loadConfig(root)
		if err != nil {
			fatal("Error loading config", err)
		}

		opts := append(cfg.Options(), snipcat.WithLogger(slog.Default()), snipcat.WithAdapter("fs"), snipcat.WithMustExist(true))
		src, err := snipcat.Init(root, opts...)
		if err != nil {
			fatal("Error opening catalog", err)
		}

		stats, err := snipcat.Export(context.Background(), src, dbPath, opts...)
		if err != nil {
			fatal("Error exporting catalog", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "exported %d documents, %d entries, %d snippets, %d references to %s\n",
			stats.Documents, stats.Entries, stats.Snippets, stats.References, dbPath)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
