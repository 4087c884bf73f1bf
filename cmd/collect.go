package main

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/tubepulse/tubepulse-cli/internal/blobstore"
	"github.com/tubepulse/tubepulse-cli/internal/collector"
	"github.com/tubepulse/tubepulse-cli/internal/metrics"
	"github.com/tubepulse/tubepulse-cli/pkg/youtube"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect today's batch from the catalog and publish it",
	Long: `Searches the catalog for every configured region and keyword, classifies
and scores each video, and publishes the batch to the object store as
date-partitioned JSON payloads.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCollect(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(collectCmd)
}

func runCollect(ctx context.Context) error {
	if err := cfg.ValidateCollect(); err != nil {
		return err
	}

	rules, err := cfg.Rules()
	if err != nil {
		return err
	}

	store, err := blobStore()
	if err != nil {
		return err
	}

	client := youtube.NewClient(cfg.Catalog.APIKey,
		youtube.WithBaseURL(cfg.Catalog.BaseURL),
		youtube.WithRateLimit(cfg.Catalog.RequestsPerSec),
	)

	asm := collector.NewAssembler(client, rules,
		cfg.Catalog.Regions, cfg.Catalog.Keywords, cfg.Catalog.VideosPerKeyword)

	batch, err := asm.Collect(ctx)
	if err != nil {
		return eris.Wrap(err, "collect")
	}
	metrics.VideosCollected.Add(float64(len(batch.Videos)))
	metrics.ChannelsCollected.Add(float64(len(batch.Channels)))

	prefix, err := blobstore.NewPublisher(store).Publish(ctx, batch, cfg.Catalog.Regions, cfg.Catalog.Keywords)
	if err != nil {
		return eris.Wrap(err, "collect: publish batch")
	}

	fmt.Printf("Published %d videos and %d channels under %s\n",
		len(batch.Videos), len(batch.Channels), prefix)
	return nil
}
