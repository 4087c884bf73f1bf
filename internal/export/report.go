// Package export writes the daily aggregate rollup to an XLSX report.
package export

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/tubepulse/tubepulse-cli/internal/db"
)

// AggregateRow is one (country, sentiment) rollup row for a date.
type AggregateRow struct {
	AnalysisDate      time.Time
	ChannelCountry    string
	FinalSentiment    string
	VideoCount        int64
	TotalViews        int64
	TotalLikes        int64
	TotalComments     int64
	AvgEngagementRate float64
}

// FetchDailyAggregates reads the date's aggregate rows, ordered for a stable
// report layout.
func FetchDailyAggregates(ctx context.Context, pool db.Pool, date time.Time) ([]AggregateRow, error) {
	rows, err := pool.Query(ctx,
		`SELECT analysis_date, channel_country, final_sentiment, video_count,
		        total_views, total_likes, total_comments, avg_engagement_rate
		 FROM analytics.agg_daily_by_region
		 WHERE analysis_date = $1
		 ORDER BY channel_country, final_sentiment`,
		date.Format("2006-01-02"),
	)
	if err != nil {
		return nil, eris.Wrap(err, "export: query aggregates")
	}
	defer rows.Close()

	var result []AggregateRow
	for rows.Next() {
		var r AggregateRow
		if err := rows.Scan(
			&r.AnalysisDate, &r.ChannelCountry, &r.FinalSentiment, &r.VideoCount,
			&r.TotalViews, &r.TotalLikes, &r.TotalComments, &r.AvgEngagementRate,
		); err != nil {
			return nil, eris.Wrap(err, "export: scan aggregate row")
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "export: iterate aggregates")
	}

	return result, nil
}

var reportHeader = []string{
	"analysis_date", "channel_country", "final_sentiment", "video_count",
	"total_views", "total_likes", "total_comments", "avg_engagement_rate",
}

// WriteReport writes the aggregate rows to an XLSX file at path.
func WriteReport(rows []AggregateRow, path string) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("daily_by_region")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range reportHeader {
		header.AddCell().SetString(col)
	}

	for _, r := range rows {
		row := sheet.AddRow()
		row.AddCell().SetString(r.AnalysisDate.Format("2006-01-02"))
		row.AddCell().SetString(r.ChannelCountry)
		row.AddCell().SetString(r.FinalSentiment)
		row.AddCell().SetInt64(r.VideoCount)
		row.AddCell().SetInt64(r.TotalViews)
		row.AddCell().SetInt64(r.TotalLikes)
		row.AddCell().SetInt64(r.TotalComments)
		row.AddCell().SetFloatWithFormat(r.AvgEngagementRate, "0.0000")
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save report %s", path)
	}
	return nil
}
