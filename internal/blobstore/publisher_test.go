package blobstore

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tubepulse/tubepulse-cli/internal/model"
)

func TestPublisher_Publish(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	batch := &model.Batch{
		Videos: []model.VideoRecord{
			{VideoID: "v1", ChannelID: "c1", FinalSentiment: model.SentimentNeutral},
		},
		Channels: []model.ChannelRecord{
			{ChannelID: "c1", ChannelTitle: "Chan", ChannelCountry: model.CountryUnknown},
		},
		CollectedAt: time.Date(2026, 8, 23, 6, 30, 15, 0, time.UTC),
	}

	prefix, err := NewPublisher(store).Publish(ctx, batch, []string{"US"}, []string{"technology"})
	require.NoError(t, err)
	assert.Equal(t, "raw/2026/08/23", prefix)

	names, err := store.List(ctx, prefix)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"raw/2026/08/23/channels_20260823_063015.json",
		"raw/2026/08/23/metadata_20260823_063015.json",
		"raw/2026/08/23/videos_20260823_063015.json",
	}, names)

	// Video payload is a flat JSON array of records.
	data, err := store.Get(ctx, "raw/2026/08/23/videos_20260823_063015.json")
	require.NoError(t, err)
	var videos []model.VideoRecord
	require.NoError(t, json.Unmarshal(data, &videos))
	require.Len(t, videos, 1)
	assert.Equal(t, "v1", videos[0].VideoID)

	// Metadata summarizes the batch.
	data, err = store.Get(ctx, "raw/2026/08/23/metadata_20260823_063015.json")
	require.NoError(t, err)
	var meta model.BatchMetadata
	require.NoError(t, json.Unmarshal(data, &meta))
	assert.Equal(t, "2026-08-23", meta.CollectionDate)
	assert.Equal(t, 1, meta.TotalVideos)
	assert.Equal(t, []string{"US"}, meta.Regions)
}
