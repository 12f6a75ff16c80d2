package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/snipcat"
	"github.com/aretw0/snipcat/pkg/core"
)

var (
	verbose    bool
	dir        string
	configPath string
	dbPath     string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "snipcat",
	Short: "Browse and lint Markdown snippet catalogs",
	Long: `snipcat reads snippet catalogs written as Markdown: every H2 is a
category, every H3 an entry with code snippets and reference links.
It lists and shows entries, keeps the table of contents in sync and
checks the catalog structure.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&dir, "dir", "C", "", "Catalog directory (default: discovered from the working directory)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: .snipcat.yaml or .snipcat.json in the catalog root)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Read the catalog from a SQLite snapshot")
}

// catalogRoot resolves --dir, falling back to the root discovered above the
// working directory, then to the working directory itself.
func catalogRoot() (string, error) {
	if dir != "" {
		return dir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if root, err := snipcat.FindRoot(wd); err == nil {
		return root, nil
	}
	return wd, nil
}

func loadConfig(root string) (snipcat.Config, error) {
	if configPath != "" {
		return snipcat.LoadConfigFile(configPath)
	}
	return snipcat.LoadConfig(root)
}

// openService builds and loads the catalog selected by the global flags.
func openService(ctx context.Context, extra ...snipcat.Option) (*core.Service, snipcat.Config, error) {
	root, err := catalogRoot()
	if err != nil {
		return nil, snipcat.Config{}, err
	}
	cfg, err := loadConfig(root)
	if err != nil {
		return nil, snipcat.Config{}, err
	}

	uri := cfg.URI(root)
	opts := append(cfg.Options(), snipcat.WithLogger(slog.Default()), snipcat.WithMustExist(true))
	if dbPath != "" {
		uri = dbPath
		opts = append(opts, snipcat.WithAdapter("sqlite"), snipcat.WithReadOnly(true))
	}
	opts = append(opts, extra...)

	slog.Debug("opening catalog", "uri", uri, "config", cfg.Path)
	svc, err := snipcat.Open(ctx, uri, opts...)
	if err != nil {
		return nil, cfg, err
	}
	return svc, cfg, nil
}
