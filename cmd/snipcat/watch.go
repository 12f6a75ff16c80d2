package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/snipcat"
)

var watchPattern string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reload the catalog whenever a document changes",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc, _, err := openService(ctx, snipcat.WithWatcherErrorHandler(func(err error) {
			slog.Error("watcher error", "error", err)
		}))
		if err != nil {
			fatal("Error opening catalog", err)
		}

		events, err := svc.Watch(ctx, watchPattern)
		if err != nil {
			fatal("Error starting watcher", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "watching %d documents, %d entries\n", len(svc.Documents()), svc.Catalog().Len())

		for e := range events {
			fmt.Fprintf(out, "%s: %d categories, %d entries\n", e, len(svc.ListCategories()), svc.Catalog().Len())
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVar(&watchPattern, "pattern", "", "Only react to paths matching this glob")
}
