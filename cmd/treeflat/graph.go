package main

import (
	"github.com/aretw0/treeflat/internal/cli"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <input>",
	Short: "Export the tree as a Mermaid diagram",
	Long: `Reads every node of <input> and outputs a Mermaid diagram (graph TD).
With --trace the nodes reached from the entry node are highlighted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := resolveOptions(cmd)
		if err != nil {
			return err
		}
		trace, _ := cmd.Flags().GetBool("trace")
		return cli.Graph(cmd.Context(), opts, args[0], trace)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().Bool("trace", false, "Highlight the nodes visited by a traversal")
}
