package warehouse

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/tubepulse/tubepulse-cli/internal/db"
)

// Load-log run statuses.
const (
	RunStatusRunning = "RUNNING"
	RunStatusSuccess = "SUCCESS"
	RunStatusFailed  = "FAILED"
)

// LoadLogEntry is one row of etl.load_log.
type LoadLogEntry struct {
	ID          uuid.UUID
	LoadDate    time.Time
	Status      string
	Error       string
	StartedAt   time.Time
	CompletedAt *time.Time
}

// LoadLog records run bookkeeping in etl.load_log.
type LoadLog struct {
	pool db.Pool
}

func NewLoadLog(pool db.Pool) *LoadLog {
	return &LoadLog{pool: pool}
}

// Start inserts a RUNNING entry for the run.
func (l *LoadLog) Start(ctx context.Context, id uuid.UUID, date, startedAt time.Time) error {
	_, err := l.pool.Exec(ctx,
		`INSERT INTO etl.load_log (id, load_date, status, started_at) VALUES ($1, $2, $3, $4)`,
		id, date.Format("2006-01-02"), RunStatusRunning, startedAt,
	)
	if err != nil {
		return eris.Wrap(err, "loadlog: insert run")
	}
	return nil
}

// Finish marks the run terminal with its phase report.
func (l *LoadLog) Finish(ctx context.Context, id uuid.UUID, status string, phases []PhaseResult, errMsg string, completedAt time.Time) error {
	report, err := json.Marshal(phases)
	if err != nil {
		return eris.Wrap(err, "loadlog: marshal phase report")
	}

	_, err = l.pool.Exec(ctx,
		`UPDATE etl.load_log SET status = $2, phases = $3, error = NULLIF($4, ''), completed_at = $5 WHERE id = $1`,
		id, status, report, errMsg, completedAt,
	)
	if err != nil {
		return eris.Wrap(err, "loadlog: update run")
	}
	return nil
}

// List returns the most recent runs, newest first.
func (l *LoadLog) List(ctx context.Context, limit int) ([]LoadLogEntry, error) {
	rows, err := l.pool.Query(ctx,
		`SELECT id, load_date, status, COALESCE(error, ''), started_at, completed_at
		 FROM etl.load_log ORDER BY started_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "loadlog: query runs")
	}
	defer rows.Close()

	var entries []LoadLogEntry
	for rows.Next() {
		var e LoadLogEntry
		if err := rows.Scan(&e.ID, &e.LoadDate, &e.Status, &e.Error, &e.StartedAt, &e.CompletedAt); err != nil {
			return nil, eris.Wrap(err, "loadlog: scan run")
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "loadlog: iterate runs")
	}

	return entries, nil
}
