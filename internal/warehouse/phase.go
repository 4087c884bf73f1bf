// Package warehouse implements the phased load from the object store into
// the analytical warehouse: staging append, channel dimension merge, fact
// merge, daily aggregate refresh, and staging cleanup, each in its own
// transaction under a critical/non-critical failure policy.
package warehouse

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// RunState is the orchestrator's position in the load protocol.
type RunState string

const (
	StateStart               RunState = "START"
	StateStagingLoaded       RunState = "STAGING_LOADED"
	StateChannelsMerged      RunState = "CHANNELS_MERGED"
	StateFactsMerged         RunState = "FACTS_MERGED"
	StateAggregatesRefreshed RunState = "AGGREGATES_REFRESHED"
	StateCleaned             RunState = "CLEANED"
	StateDone                RunState = "DONE"
	StateFailed              RunState = "FAILED"
)

// PhaseStatus is the outcome of one phase attempt.
type PhaseStatus string

const (
	PhaseSuccess PhaseStatus = "success"
	PhaseFailed  PhaseStatus = "failed"
	PhaseSkipped PhaseStatus = "skipped"
)

// Phase is one bounded unit of warehouse mutation. Run executes entirely
// inside the transaction it is handed; the orchestrator owns commit and
// rollback.
type Phase interface {
	Name() string
	Critical() bool
	Run(ctx context.Context, tx pgx.Tx) (int64, error)
}

// PhaseResult records one phase attempt for the run report and the load log.
type PhaseResult struct {
	Name       string      `json:"name"`
	Status     PhaseStatus `json:"status"`
	Critical   bool        `json:"critical"`
	Rows       int64       `json:"rows"`
	DurationMS int64       `json:"duration_ms"`
	Error      string      `json:"error,omitempty"`
}

// RunResult is the terminal outcome of one load run. Success is true iff
// every critical phase committed; non-critical outcomes only appear in
// Phases.
type RunResult struct {
	ID        uuid.UUID     `json:"id"`
	Date      time.Time     `json:"date"`
	State     RunState      `json:"state"`
	Success   bool          `json:"success"`
	Phases    []PhaseResult `json:"phases"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"-"`
}

// FailedPhase returns the name of the critical phase that failed, or "".
func (r *RunResult) FailedPhase() string {
	for _, p := range r.Phases {
		if p.Status == PhaseFailed && p.Critical {
			return p.Name
		}
	}
	return ""
}
