package warehouse

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
)

const aggDailyInsert = `
	INSERT INTO analytics.agg_daily_by_region
		(analysis_date, channel_country, final_sentiment, video_count,
		 total_views, total_likes, total_comments, avg_engagement_rate)
	SELECT
		f.collection_date,
		COALESCE(d.channel_country, 'UNKNOWN'),
		f.final_sentiment,
		COUNT(*),
		SUM(f.view_count),
		SUM(f.like_count),
		SUM(f.comment_count),
		ROUND(AVG(f.engagement_rate)::numeric, 4)
	FROM core.fact_videos f
	LEFT JOIN core.dim_channels d ON d.channel_id = f.channel_id
	WHERE f.collection_date = $1
	GROUP BY f.collection_date, COALESCE(d.channel_country, 'UNKNOWN'), f.final_sentiment`

// AggregateRefresher fully replaces the date's rows in
// analytics.agg_daily_by_region with a fresh (country, sentiment) rollup of
// that date's facts. Delete-then-insert keeps it idempotent per date.
type AggregateRefresher struct {
	date time.Time
}

func NewAggregateRefresher(date time.Time) *AggregateRefresher {
	return &AggregateRefresher{date: date}
}

func (r *AggregateRefresher) Name() string   { return "aggregate_refresh" }
func (r *AggregateRefresher) Critical() bool { return false }

func (r *AggregateRefresher) Run(ctx context.Context, tx pgx.Tx) (int64, error) {
	day := r.date.Format("2006-01-02")

	if _, err := tx.Exec(ctx, `DELETE FROM analytics.agg_daily_by_region WHERE analysis_date = $1`, day); err != nil {
		return 0, eris.Wrap(err, "aggregates: delete current date")
	}

	tag, err := tx.Exec(ctx, aggDailyInsert, day)
	if err != nil {
		return 0, eris.Wrap(err, "aggregates: insert rollup")
	}
	return tag.RowsAffected(), nil
}
