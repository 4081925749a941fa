package main

import (
	"context"
	"os"

	"github.com/aretw0/treeflat/internal/cli"
	"github.com/aretw0/treeflat/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "treeflat <input> <output>",
	Short: "treeflat flattens binary decision trees into rule lists",
	Long: `treeflat reads a decision tree stored one node per line and writes one rule
per reachable leaf: the simplified conjunction of conditions leading to it and
the leaf value. Contradictory paths are pruned.

Running treeflat with two arguments is the same as 'treeflat flatten'.`,
	Args:          cobra.ExactArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx := cli.NewSignalContext(context.Background())
	defer ctx.Cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		tui.PrintError(os.Stderr, err)
		if ctx.Signal() != nil {
			os.Exit(130)
		}
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	cli.RegisterFlags(rootCmd.PersistentFlags())
}

// resolveOptions merges the configuration file with the flags of cmd.
func resolveOptions(cmd *cobra.Command) (cli.Options, error) {
	cfg, err := cli.ResolveConfig(cmd.Flags())
	if err != nil {
		return cli.Options{}, err
	}
	opts := cli.NewOptions(cfg)
	opts.Stdout = cmd.OutOrStdout()
	opts.Stderr = cmd.ErrOrStderr()
	opts.Quiet, _ = cmd.Flags().GetBool("quiet")
	return opts, nil
}
