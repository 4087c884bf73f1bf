package warehouse

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/tubepulse/tubepulse-cli/internal/blobstore"
	"github.com/tubepulse/tubepulse-cli/internal/db"
)

// StagingLoader appends every video payload under the run's date partition
// into raw.stg_videos, one row per record, tagged with the source file name.
// Staging is a raw capture area: re-running appends duplicates, and that is
// fine because the fact merge deduplicates downstream.
type StagingLoader struct {
	store blobstore.Store
	date  time.Time
}

func NewStagingLoader(store blobstore.Store, date time.Time) *StagingLoader {
	return &StagingLoader{store: store, date: date}
}

func (l *StagingLoader) Name() string   { return "staging_load" }
func (l *StagingLoader) Critical() bool { return true }

func (l *StagingLoader) Run(ctx context.Context, tx pgx.Tx) (int64, error) {
	names, err := listPayloads(ctx, l.store, l.date, "videos_")
	if err != nil {
		return 0, err
	}

	var total int64
	for _, name := range names {
		data, err := l.store.Get(ctx, name)
		if err != nil {
			return 0, eris.Wrapf(err, "staging: read payload %s", name)
		}

		var records []json.RawMessage
		if err := json.Unmarshal(data, &records); err != nil {
			return 0, eris.Wrapf(err, "staging: unpack payload %s", name)
		}

		fileName := blobstore.Base(name)
		rows := make([][]any, len(records))
		for i, rec := range records {
			rows[i] = []any{string(rec), fileName}
		}

		n, err := db.CopyInto(ctx, tx, "raw.stg_videos", []string{"raw_json", "file_name"}, rows)
		if err != nil {
			return 0, err
		}
		total += n

		zap.L().Debug("staged payload",
			zap.String("file", fileName),
			zap.Int64("rows", n),
		)
	}

	return total, nil
}

// listPayloads returns the partition's object names whose file name carries
// the given category prefix, in lexicographic order.
func listPayloads(ctx context.Context, store blobstore.Store, date time.Time, category string) ([]string, error) {
	names, err := store.List(ctx, blobstore.DatePrefix(date))
	if err != nil {
		return nil, eris.Wrap(err, "warehouse: list partition")
	}

	var matched []string
	for _, name := range names {
		base := blobstore.Base(name)
		if strings.HasPrefix(base, category) && strings.HasSuffix(base, ".json") {
			matched = append(matched, name)
		}
	}
	return matched, nil
}
