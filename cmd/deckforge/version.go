package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/deckforge"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of deckforge",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "deckforge version %s\n", strings.TrimSpace(deckforge.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
