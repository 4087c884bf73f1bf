package warehouse

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/tubepulse/tubepulse-cli/internal/blobstore"
	"github.com/tubepulse/tubepulse-cli/internal/db"
	"github.com/tubepulse/tubepulse-cli/internal/model"
)

const dimChannelsMerge = `
	INSERT INTO core.dim_channels
		(channel_id, channel_title, channel_country, subscriber_count, video_count, first_seen_date, last_updated)
	SELECT channel_id, channel_title, channel_country, subscriber_count, video_count, CURRENT_DATE, now()
	FROM tmp_dim_channels
	ON CONFLICT (channel_id) DO UPDATE SET
		channel_title    = EXCLUDED.channel_title,
		channel_country  = EXCLUDED.channel_country,
		subscriber_count = EXCLUDED.subscriber_count,
		video_count      = EXCLUDED.video_count,
		last_updated     = now()`

// DimensionMerger upserts the partition's latest channel snapshots into
// core.dim_channels. When a channel appears in several payload files the
// lexicographically-last file wins. Existing rows keep their first_seen_date;
// every merged row gets a fresh last_updated. Idempotent.
type DimensionMerger struct {
	store blobstore.Store
	date  time.Time
}

func NewDimensionMerger(store blobstore.Store, date time.Time) *DimensionMerger {
	return &DimensionMerger{store: store, date: date}
}

func (m *DimensionMerger) Name() string   { return "channel_merge" }
func (m *DimensionMerger) Critical() bool { return true }

func (m *DimensionMerger) Run(ctx context.Context, tx pgx.Tx) (int64, error) {
	latest, err := m.latestSnapshots(ctx)
	if err != nil {
		return 0, err
	}
	if len(latest) == 0 {
		return 0, nil
	}

	_, err = tx.Exec(ctx, `
		CREATE TEMP TABLE tmp_dim_channels (
			channel_id       text,
			channel_title    text,
			channel_country  text,
			subscriber_count bigint,
			video_count      bigint
		) ON COMMIT DROP`)
	if err != nil {
		return 0, eris.Wrap(err, "channels: create temp table")
	}

	ids := make([]string, 0, len(latest))
	for id := range latest {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	rows := make([][]any, len(ids))
	for i, id := range ids {
		ch := latest[id]
		rows[i] = []any{ch.ChannelID, ch.ChannelTitle, ch.ChannelCountry, ch.SubscriberCount, ch.VideoCount}
	}

	cols := []string{"channel_id", "channel_title", "channel_country", "subscriber_count", "video_count"}
	if _, err := db.CopyInto(ctx, tx, "tmp_dim_channels", cols, rows); err != nil {
		return 0, err
	}

	tag, err := tx.Exec(ctx, dimChannelsMerge)
	if err != nil {
		return 0, eris.Wrap(err, "channels: merge dimension")
	}

	return tag.RowsAffected(), nil
}

// latestSnapshots reads the partition's channel payloads in lexicographic
// file order and keeps the last snapshot seen per channel id.
func (m *DimensionMerger) latestSnapshots(ctx context.Context) (map[string]model.ChannelRecord, error) {
	names, err := listPayloads(ctx, m.store, m.date, "channels_")
	if err != nil {
		return nil, err
	}

	latest := make(map[string]model.ChannelRecord)
	for _, name := range names {
		data, err := m.store.Get(ctx, name)
		if err != nil {
			return nil, eris.Wrapf(err, "channels: read payload %s", name)
		}

		var records []model.ChannelRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, eris.Wrapf(err, "channels: unpack payload %s", name)
		}

		for _, rec := range records {
			if rec.ChannelID == "" {
				continue
			}
			latest[rec.ChannelID] = rec
		}
	}
	return latest, nil
}
