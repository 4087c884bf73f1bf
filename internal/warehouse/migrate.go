package warehouse

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/tubepulse/tubepulse-cli/internal/db"
)

// migrations bootstraps the warehouse schemas and tables. Statements are
// idempotent so migrate is safe to run on every deploy.
var migrations = []string{
	`CREATE SCHEMA IF NOT EXISTS raw`,
	`CREATE SCHEMA IF NOT EXISTS core`,
	`CREATE SCHEMA IF NOT EXISTS analytics`,
	`CREATE SCHEMA IF NOT EXISTS etl`,

	`CREATE TABLE IF NOT EXISTS raw.stg_videos (
		raw_json       jsonb NOT NULL,
		load_timestamp timestamptz NOT NULL DEFAULT now(),
		file_name      text
	)`,

	`CREATE TABLE IF NOT EXISTS core.dim_channels (
		channel_id       text PRIMARY KEY,
		channel_title    text,
		channel_country  text,
		subscriber_count bigint,
		video_count      bigint,
		first_seen_date  date NOT NULL DEFAULT CURRENT_DATE,
		last_updated     timestamptz NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS core.fact_videos (
		video_id               text PRIMARY KEY,
		channel_id             text,
		category_id            int,
		title                  text,
		description            text,
		tags                   jsonb,
		published_at           timestamptz,
		view_count             bigint,
		like_count             bigint,
		comment_count          bigint,
		engagement_rate        double precision,
		final_sentiment        text,
		classification_method  text,
		positive_keyword_count int,
		negative_keyword_count int,
		search_keyword         text,
		search_region          text,
		collected_at           timestamptz,
		collection_date        date
	)`,

	`CREATE INDEX IF NOT EXISTS idx_fact_videos_collection_date
		ON core.fact_videos (collection_date)`,

	`CREATE TABLE IF NOT EXISTS analytics.agg_daily_by_region (
		analysis_date       date NOT NULL,
		channel_country     text NOT NULL,
		final_sentiment     text NOT NULL,
		video_count         bigint,
		total_views         bigint,
		total_likes         bigint,
		total_comments      bigint,
		avg_engagement_rate double precision,
		PRIMARY KEY (analysis_date, channel_country, final_sentiment)
	)`,

	`CREATE TABLE IF NOT EXISTS etl.load_log (
		id           uuid PRIMARY KEY,
		load_date    date NOT NULL,
		status       text NOT NULL,
		phases       jsonb,
		error        text,
		started_at   timestamptz NOT NULL,
		completed_at timestamptz
	)`,
}

// Migrate applies the warehouse DDL.
func Migrate(ctx context.Context, pool db.Pool) error {
	for _, stmt := range migrations {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return eris.Wrap(err, "warehouse: apply migration")
		}
	}
	zap.L().Info("warehouse migrations applied", zap.Int("statements", len(migrations)))
	return nil
}
