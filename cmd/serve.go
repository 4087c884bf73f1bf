package main

import (
	"github.com/spf13/cobra"

	"github.com/tubepulse/tubepulse-cli/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP trigger and status API",
	Long: `Starts the HTTP server: /healthz, Prometheus /metrics, GET /api/loads for
the load log, and POST /api/load to trigger a warehouse load.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		pool, err := warehousePool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		store, err := blobStore()
		if err != nil {
			return err
		}

		return server.New(cfg.Server, pool, store).Run()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
