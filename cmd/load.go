package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/tubepulse/tubepulse-cli/internal/warehouse"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Run the five-phase warehouse load",
	Long: `Loads the date's externalized batch into the warehouse: staging append,
channel dimension merge, fact merge, daily aggregate refresh, and staging
cleanup. The first three phases are critical; a failure there aborts the run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := dateFlag(cmd)
		if err != nil {
			return eris.Wrap(err, "load: parse --date")
		}
		return runLoad(cmd.Context(), date)
	},
}

func init() {
	loadCmd.Flags().String("date", "", "partition date to load (YYYY-MM-DD, default today)")
	rootCmd.AddCommand(loadCmd)
}

func runLoad(ctx context.Context, date time.Time) error {
	pool, err := warehousePool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	store, err := blobStore()
	if err != nil {
		return err
	}

	result := warehouse.NewOrchestrator(pool).Load(ctx, store, date)
	formatRunResult(os.Stdout, result)

	if !result.Success {
		return eris.Errorf("load: run failed at phase %s", result.FailedPhase())
	}
	return nil
}

// formatRunResult writes the per-phase report as a table.
func formatRunResult(out io.Writer, result *warehouse.RunResult) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "PHASE\tSTATUS\tROWS\tDURATION\tERROR")
	_, _ = fmt.Fprintln(w, "-----\t------\t----\t--------\t-----")

	for _, p := range result.Phases {
		errMsg := ""
		if p.Error != "" {
			errMsg = truncate(p.Error, 60)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%dms\t%s\n",
			p.Name, p.Status, p.Rows, p.DurationMS, errMsg)
	}
	_ = w.Flush()

	_, _ = fmt.Fprintf(out, "\nRun %s: %s (%s)\n",
		result.ID, result.State, result.Duration.Round(time.Millisecond))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
