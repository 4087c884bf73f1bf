package export

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

var testDate = time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)

func TestFetchDailyAggregates(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT analysis_date, channel_country").
		WithArgs("2026-08-23").
		WillReturnRows(pgxmock.NewRows([]string{
			"analysis_date", "channel_country", "final_sentiment", "video_count",
			"total_views", "total_likes", "total_comments", "avg_engagement_rate",
		}).
			AddRow(testDate, "GB", "NEUTRAL", int64(3), int64(900), int64(45), int64(9), 6.0).
			AddRow(testDate, "US", "POSITIVE", int64(5), int64(1000), int64(50), int64(10), 6.5))

	rows, err := FetchDailyAggregates(context.Background(), mock, testDate)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "GB", rows[0].ChannelCountry)
	assert.Equal(t, int64(5), rows[1].VideoCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWriteReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	rows := []AggregateRow{
		{
			AnalysisDate:      testDate,
			ChannelCountry:    "US",
			FinalSentiment:    "POSITIVE",
			VideoCount:        5,
			TotalViews:        1000,
			TotalLikes:        50,
			TotalComments:     10,
			AvgEngagementRate: 6.5,
		},
	}

	require.NoError(t, WriteReport(rows, path))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)

	sheet := f.Sheets[0]
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, "analysis_date", sheet.Rows[0].Cells[0].String())
	assert.Equal(t, "2026-08-23", sheet.Rows[1].Cells[0].String())
	assert.Equal(t, "POSITIVE", sheet.Rows[1].Cells[2].String())
}

func TestWriteReport_EmptyRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, WriteReport(nil, path))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets[0].Rows, 1) // header only
}
