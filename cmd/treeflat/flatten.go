package main

import (
	"github.com/aretw0/treeflat/internal/cli"
	"github.com/spf13/cobra"
)

// flattenCmd represents the flatten command
var flattenCmd = &cobra.Command{
	Use:   "flatten <input> <output>",
	Short: "Write one rule per reachable leaf to the output file",
	Long: `Flattens the tree stored in <input> and writes its rules to <output>, one per line.
The output file is replaced only when the whole run succeeds.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := resolveOptions(cmd)
		if err != nil {
			return err
		}
		return cli.Flatten(cmd.Context(), opts, args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(flattenCmd)

	flattenCmd.Flags().BoolP("quiet", "q", false, "Do not print the run summary")
	rootCmd.Flags().BoolP("quiet", "q", false, "Do not print the run summary")

	// Make 'flatten' the default when no command is provided.
	rootCmd.RunE = flattenCmd.RunE
}
