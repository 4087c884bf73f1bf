package warehouse

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
)

// StagingCleaner empties the staging area after a successful merge. A failed
// cleanup only inflates the next run's staging volume; it never affects
// correctness, so the phase is non-critical.
type StagingCleaner struct{}

func NewStagingCleaner() *StagingCleaner { return &StagingCleaner{} }

func (c *StagingCleaner) Name() string   { return "staging_cleanup" }
func (c *StagingCleaner) Critical() bool { return false }

func (c *StagingCleaner) Run(ctx context.Context, tx pgx.Tx) (int64, error) {
	if _, err := tx.Exec(ctx, `TRUNCATE TABLE raw.stg_videos`); err != nil {
		return 0, eris.Wrap(err, "cleanup: truncate staging")
	}
	return 0, nil
}
