package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tubepulse/tubepulse-cli/internal/blobstore"
	"github.com/tubepulse/tubepulse-cli/internal/config"
	"github.com/tubepulse/tubepulse-cli/internal/warehouse"

	"github.com/jackc/pgx/v5/pgxpool"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "tubepulse",
	Short: "Video catalog ETL into the analytics warehouse",
	Long:  "Collects trending videos from the catalog API, classifies sentiment, stages batches to the object store, and loads them into the warehouse through a phased merge pipeline.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// warehousePool validates the warehouse configuration and opens the pool.
// The caller owns the pool and must Close it.
func warehousePool(ctx context.Context) (*pgxpool.Pool, error) {
	if err := cfg.ValidateLoad(); err != nil {
		return nil, err
	}
	return warehouse.Connect(ctx, cfg.Warehouse)
}

// blobStore opens the object store configured for externalized batches.
func blobStore() (*blobstore.FSStore, error) {
	return blobstore.NewFSStore(cfg.Blob.RootDir)
}

// dateFlag parses a --date flag, defaulting to today (UTC).
func dateFlag(cmd *cobra.Command) (time.Time, error) {
	raw, _ := cmd.Flags().GetString("date")
	if raw == "" {
		return time.Now().UTC(), nil
	}
	return time.Parse("2006-01-02", raw)
}
