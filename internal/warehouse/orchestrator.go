package warehouse

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/tubepulse/tubepulse-cli/internal/blobstore"
	"github.com/tubepulse/tubepulse-cli/internal/db"
	"github.com/tubepulse/tubepulse-cli/internal/metrics"
)

// stateAfter maps a phase to the state the run enters when that phase
// completes (or, for a non-critical phase, when its failure is absorbed).
var stateAfter = map[string]RunState{
	"staging_load":      StateStagingLoaded,
	"channel_merge":     StateChannelsMerged,
	"fact_merge":        StateFactsMerged,
	"aggregate_refresh": StateAggregatesRefreshed,
	"staging_cleanup":   StateCleaned,
}

// Phases returns the fixed phase sequence for one run over the given date
// partition. Ordering is not configurable.
func Phases(store blobstore.Store, date time.Time) []Phase {
	return []Phase{
		NewStagingLoader(store, date),
		NewDimensionMerger(store, date),
		NewFactMerger(),
		NewAggregateRefresher(date),
		NewStagingCleaner(),
	}
}

// Orchestrator drives the load protocol: each phase runs in its own
// transaction, critical failures abort the remaining phases, non-critical
// failures are absorbed. No error or panic escapes Load; the outcome is the
// returned RunResult.
type Orchestrator struct {
	pool db.Pool
	log  *LoadLog
	now  func() time.Time
}

func NewOrchestrator(pool db.Pool) *Orchestrator {
	return &Orchestrator{
		pool: pool,
		log:  NewLoadLog(pool),
		now:  time.Now,
	}
}

// Load runs the five phases for the date's partition and reports the
// terminal outcome. Success is true iff every critical phase committed.
func (o *Orchestrator) Load(ctx context.Context, store blobstore.Store, date time.Time) *RunResult {
	log := zap.L().With(
		zap.String("component", "orchestrator"),
		zap.String("load_date", date.Format("2006-01-02")),
	)

	result := &RunResult{
		ID:        uuid.New(),
		Date:      date,
		State:     StateStart,
		StartedAt: o.now().UTC(),
	}
	log.Info("load run starting", zap.String("run_id", result.ID.String()))

	// Bookkeeping failures must not block the load itself.
	if err := o.log.Start(ctx, result.ID, date, result.StartedAt); err != nil {
		log.Warn("load log start failed", zap.Error(err))
	}

	for _, phase := range Phases(store, date) {
		if result.State == StateFailed {
			result.Phases = append(result.Phases, PhaseResult{
				Name:     phase.Name(),
				Status:   PhaseSkipped,
				Critical: phase.Critical(),
			})
			continue
		}

		pr := o.runPhase(ctx, phase)
		result.Phases = append(result.Phases, pr)

		switch {
		case pr.Status == PhaseSuccess:
			result.State = stateAfter[phase.Name()]
			log.Info("phase complete",
				zap.String("phase", pr.Name),
				zap.Int64("rows", pr.Rows),
				zap.Int64("duration_ms", pr.DurationMS),
			)
		case phase.Critical():
			result.State = StateFailed
			log.Error("critical phase failed, aborting run",
				zap.String("phase", pr.Name),
				zap.String("error", pr.Error),
			)
		default:
			// Absorbed: the run continues as if the phase had succeeded.
			result.State = stateAfter[phase.Name()]
			log.Warn("non-critical phase failed, continuing",
				zap.String("phase", pr.Name),
				zap.String("error", pr.Error),
			)
		}
	}

	if result.State != StateFailed {
		result.State = StateDone
		result.Success = true
	}
	result.Duration = o.now().UTC().Sub(result.StartedAt)

	status, errMsg := RunStatusSuccess, ""
	if !result.Success {
		status = RunStatusFailed
		for _, p := range result.Phases {
			if p.Status == PhaseFailed && p.Critical {
				errMsg = p.Name + ": " + p.Error
				break
			}
		}
	}
	metrics.LoadRunsTotal.WithLabelValues(status).Inc()

	if err := o.log.Finish(ctx, result.ID, status, result.Phases, errMsg, o.now().UTC()); err != nil {
		log.Warn("load log finish failed", zap.Error(err))
	}

	log.Info("load run finished",
		zap.Bool("success", result.Success),
		zap.String("state", string(result.State)),
		zap.Duration("duration", result.Duration),
	)
	return result
}

// runPhase executes one phase inside its own transaction and turns whatever
// happened into a PhaseResult.
func (o *Orchestrator) runPhase(ctx context.Context, phase Phase) PhaseResult {
	start := o.now()
	result := PhaseResult{
		Name:     phase.Name(),
		Critical: phase.Critical(),
	}

	rows, err := o.execute(ctx, phase)
	elapsed := o.now().Sub(start)
	result.DurationMS = elapsed.Milliseconds()
	metrics.PhaseDuration.WithLabelValues(phase.Name()).Observe(elapsed.Seconds())

	if err != nil {
		result.Status = PhaseFailed
		result.Error = err.Error()
		metrics.PhaseFailures.WithLabelValues(phase.Name()).Inc()
		return result
	}

	result.Status = PhaseSuccess
	result.Rows = rows
	return result
}

// execute wraps one phase in a transaction. A panic inside a phase is
// converted to a failure; it never crosses the orchestrator boundary.
func (o *Orchestrator) execute(ctx context.Context, phase Phase) (rows int64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = eris.Errorf("orchestrator: phase %s panicked: %v", phase.Name(), r)
		}
	}()

	tx, err := o.pool.Begin(ctx)
	if err != nil {
		return 0, eris.Wrapf(err, "orchestrator: begin %s", phase.Name())
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows, err = phase.Run(ctx, tx)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, eris.Wrapf(err, "orchestrator: commit %s", phase.Name())
	}
	return rows, nil
}
