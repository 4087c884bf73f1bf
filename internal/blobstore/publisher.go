package blobstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/tubepulse/tubepulse-cli/internal/model"
)

// Publisher externalizes collected batches into the object store under a
// date-partitioned path. Each publish writes a videos payload, a channels
// payload, and a metadata summary, all stamped with the batch timestamp so
// repeated runs on the same day land side by side.
type Publisher struct {
	store Store
}

// NewPublisher creates a Publisher writing to the given store.
func NewPublisher(store Store) *Publisher {
	return &Publisher{store: store}
}

// Publish serializes the batch and writes it under the batch's date
// partition. Returns the partition prefix the payloads were written to.
func (p *Publisher) Publish(ctx context.Context, batch *model.Batch, regions, keywords []string) (string, error) {
	log := zap.L().With(zap.String("component", "blobstore.publisher"))

	prefix := DatePrefix(batch.CollectedAt)
	stamp := batch.CollectedAt.Format("20060102_150405")

	videosJSON, err := json.MarshalIndent(batch.Videos, "", "  ")
	if err != nil {
		return "", eris.Wrap(err, "publisher: marshal videos")
	}
	channelsJSON, err := json.MarshalIndent(batch.Channels, "", "  ")
	if err != nil {
		return "", eris.Wrap(err, "publisher: marshal channels")
	}

	meta := model.BatchMetadata{
		CollectionDate: batch.CollectedAt.Format("2006-01-02"),
		CollectionTime: batch.CollectedAt.Format("15:04:05"),
		TotalVideos:    len(batch.Videos),
		TotalChannels:  len(batch.Channels),
		Regions:        regions,
		Keywords:       keywords,
	}
	metaJSON, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", eris.Wrap(err, "publisher: marshal metadata")
	}

	objects := map[string][]byte{
		fmt.Sprintf("%s/videos_%s.json", prefix, stamp):   videosJSON,
		fmt.Sprintf("%s/channels_%s.json", prefix, stamp): channelsJSON,
		fmt.Sprintf("%s/metadata_%s.json", prefix, stamp): metaJSON,
	}
	for name, data := range objects {
		if err := p.store.Put(ctx, name, data); err != nil {
			return "", eris.Wrapf(err, "publisher: put %s", name)
		}
	}

	log.Info("batch published",
		zap.String("prefix", prefix),
		zap.Int("videos", len(batch.Videos)),
		zap.Int("channels", len(batch.Channels)),
	)
	return prefix, nil
}
