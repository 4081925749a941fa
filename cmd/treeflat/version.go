package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/treeflat"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of treeflat",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "treeflat version %s\n", strings.TrimSpace(treeflat.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
