package warehouse

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
)

const factVideosMerge = `
	INSERT INTO core.fact_videos
		(video_id, channel_id, category_id, title, description, tags,
		 published_at, view_count, like_count, comment_count, engagement_rate,
		 final_sentiment, classification_method, positive_keyword_count,
		 negative_keyword_count, search_keyword, search_region, collected_at,
		 collection_date)
	SELECT DISTINCT ON (raw_json->>'video_id')
		raw_json->>'video_id',
		raw_json->>'channel_id',
		NULLIF(raw_json->>'category_id', '')::int,
		raw_json->>'title',
		raw_json->>'description',
		raw_json->'tags',
		NULLIF(raw_json->>'published_at', '')::timestamptz,
		COALESCE((raw_json->>'view_count')::bigint, 0),
		COALESCE((raw_json->>'like_count')::bigint, 0),
		COALESCE((raw_json->>'comment_count')::bigint, 0),
		COALESCE((raw_json->>'engagement_rate')::double precision, 0),
		raw_json->>'final_sentiment',
		raw_json->>'classification_method',
		COALESCE((raw_json->>'positive_keyword_count')::int, 0),
		COALESCE((raw_json->>'negative_keyword_count')::int, 0),
		raw_json->>'search_keyword',
		raw_json->>'search_region',
		(raw_json->>'collected_at')::timestamptz,
		((raw_json->>'collected_at')::timestamptz AT TIME ZONE 'UTC')::date
	FROM raw.stg_videos
	WHERE raw_json->>'video_id' IS NOT NULL
	ORDER BY raw_json->>'video_id', load_timestamp DESC
	ON CONFLICT (video_id) DO NOTHING`

// FactMerger moves staged video records into core.fact_videos: deduplicates
// staging by video id (latest staged copy wins the tie-break) and inserts
// only ids not already present. Existing fact rows are never updated, so the
// merge is idempotent and facts stay immutable once written.
type FactMerger struct{}

func NewFactMerger() *FactMerger { return &FactMerger{} }

func (m *FactMerger) Name() string   { return "fact_merge" }
func (m *FactMerger) Critical() bool { return true }

func (m *FactMerger) Run(ctx context.Context, tx pgx.Tx) (int64, error) {
	tag, err := tx.Exec(ctx, factVideosMerge)
	if err != nil {
		return 0, eris.Wrap(err, "facts: merge staged videos")
	}
	return tag.RowsAffected(), nil
}
