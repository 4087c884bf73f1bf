package warehouse

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tubepulse/tubepulse-cli/internal/blobstore"
)

var testDate = time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)

func newStore(t *testing.T) *blobstore.FSStore {
	t.Helper()
	store, err := blobstore.NewFSStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func put(t *testing.T, store blobstore.Store, name, payload string) {
	t.Helper()
	require.NoError(t, store.Put(context.Background(), name, []byte(payload)))
}

func beginTx(t *testing.T, mock pgxmock.PgxPoolIface) pgx.Tx {
	t.Helper()
	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)
	return tx
}

func TestStagingLoader_AppendsEveryRecord(t *testing.T) {
	store := newStore(t)
	put(t, store, "raw/2026/08/23/videos_20260823_060000.json",
		`[{"video_id":"v1"},{"video_id":"v2"}]`)
	put(t, store, "raw/2026/08/23/videos_20260823_120000.json",
		`[{"video_id":"v1"}]`)
	// Channel payloads are not the staging loader's concern.
	put(t, store, "raw/2026/08/23/channels_20260823_060000.json",
		`[{"channel_id":"c1"}]`)

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectCopyFrom(pgx.Identifier{"raw", "stg_videos"}, []string{"raw_json", "file_name"}).WillReturnResult(2)
	mock.ExpectCopyFrom(pgx.Identifier{"raw", "stg_videos"}, []string{"raw_json", "file_name"}).WillReturnResult(1)

	n, err := NewStagingLoader(store, testDate).Run(context.Background(), beginTx(t, mock))
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStagingLoader_EmptyPartition(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	mock.ExpectBegin()

	n, err := NewStagingLoader(newStore(t), testDate).Run(context.Background(), beginTx(t, mock))
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStagingLoader_MalformedPayload(t *testing.T) {
	store := newStore(t)
	put(t, store, "raw/2026/08/23/videos_20260823_060000.json", `{"not":"an array"}`)

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	mock.ExpectBegin()

	_, err = NewStagingLoader(store, testDate).Run(context.Background(), beginTx(t, mock))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unpack payload")
}

func TestDimensionMerger_LastFileWins(t *testing.T) {
	store := newStore(t)
	put(t, store, "raw/2026/08/23/channels_20260823_060000.json",
		`[{"channel_id":"c1","channel_title":"Old","channel_country":"US","subscriber_count":10,"video_count":1}]`)
	put(t, store, "raw/2026/08/23/channels_20260823_120000.json",
		`[{"channel_id":"c1","channel_title":"New","channel_country":"US","subscriber_count":20,"video_count":2},
		  {"channel_id":"c2","channel_title":"Other","channel_country":"GB","subscriber_count":5,"video_count":1}]`)

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	cols := []string{"channel_id", "channel_title", "channel_country", "subscriber_count", "video_count"}
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TEMP TABLE tmp_dim_channels").WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"tmp_dim_channels"}, cols).WillReturnResult(2)
	mock.ExpectExec("INSERT INTO core.dim_channels").WillReturnResult(pgxmock.NewResult("INSERT", 2))

	n, err := NewDimensionMerger(store, testDate).Run(context.Background(), beginTx(t, mock))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDimensionMerger_LatestSnapshots(t *testing.T) {
	store := newStore(t)
	put(t, store, "raw/2026/08/23/channels_20260823_060000.json",
		`[{"channel_id":"c1","subscriber_count":10}]`)
	put(t, store, "raw/2026/08/23/channels_20260823_120000.json",
		`[{"channel_id":"c1","subscriber_count":20},{"channel_id":""}]`)

	latest, err := NewDimensionMerger(store, testDate).latestSnapshots(context.Background())
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, int64(20), latest["c1"].SubscriberCount)
}

func TestDimensionMerger_NoChannels(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	mock.ExpectBegin()

	n, err := NewDimensionMerger(newStore(t), testDate).Run(context.Background(), beginTx(t, mock))
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFactMerger_InsertIfAbsent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO core.fact_videos").WillReturnResult(pgxmock.NewResult("INSERT", 7))

	n, err := NewFactMerger().Run(context.Background(), beginTx(t, mock))
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFactMerger_SQLShape(t *testing.T) {
	// Staging dedup keeps the latest staged copy and never updates facts.
	assert.Contains(t, factVideosMerge, "DISTINCT ON (raw_json->>'video_id')")
	assert.Contains(t, factVideosMerge, "load_timestamp DESC")
	assert.Contains(t, factVideosMerge, "ON CONFLICT (video_id) DO NOTHING")
	assert.Contains(t, factVideosMerge, "WHERE raw_json->>'video_id' IS NOT NULL")
}

func TestAggregateRefresher_DeleteThenInsert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM analytics.agg_daily_by_region").
		WithArgs("2026-08-23").
		WillReturnResult(pgxmock.NewResult("DELETE", 4))
	mock.ExpectExec("INSERT INTO analytics.agg_daily_by_region").
		WithArgs("2026-08-23").
		WillReturnResult(pgxmock.NewResult("INSERT", 4))

	n, err := NewAggregateRefresher(testDate).Run(context.Background(), beginTx(t, mock))
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAggregateRefresher_DeleteFails(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM analytics.agg_daily_by_region").
		WillReturnError(fmt.Errorf("permission denied"))

	_, err = NewAggregateRefresher(testDate).Run(context.Background(), beginTx(t, mock))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete current date")
}

func TestStagingCleaner_Truncates(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("TRUNCATE TABLE raw.stg_videos").WillReturnResult(pgxmock.NewResult("TRUNCATE", 0))

	_, err = NewStagingCleaner().Run(context.Background(), beginTx(t, mock))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPhaseCriticality(t *testing.T) {
	store := newStore(t)
	phases := Phases(store, testDate)
	require.Len(t, phases, 5)

	assert.True(t, phases[0].Critical())
	assert.True(t, phases[1].Critical())
	assert.True(t, phases[2].Critical())
	assert.False(t, phases[3].Critical())
	assert.False(t, phases[4].Critical())
}
