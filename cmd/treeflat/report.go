package main

import (
	"github.com/aretw0/treeflat/internal/cli"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report <input>",
	Short: "Print the rules as a table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := resolveOptions(cmd)
		if err != nil {
			return err
		}
		return cli.Report(cmd.Context(), opts, args[0])
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
