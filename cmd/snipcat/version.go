package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/snipcat"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of snipcat",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "snipcat version %s\n", strings.TrimSpace(snipcat.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
