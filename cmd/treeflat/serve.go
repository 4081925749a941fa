package main

import (
	"github.com/aretw0/treeflat/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Starts the flattener as an HTTP API:

  POST /v1/flatten   tree in the body, rules in the response (?root=, ?visit_limit=)
  GET  /healthz      liveness probe
  GET  /metrics      Prometheus metrics`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := resolveOptions(cmd)
		if err != nil {
			return err
		}
		addr, _ := cmd.Flags().GetString("addr")
		return cli.Serve(cmd.Context(), opts, addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", ":8080", "Address to listen on")
	serveCmd.Flags().BoolP("quiet", "q", false, "Do not print the banner")
}
