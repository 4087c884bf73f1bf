package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tubepulse/tubepulse-cli/internal/warehouse"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the warehouse load log",
	Long:  "Displays recent load runs with their status and timing.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		limit, _ := cmd.Flags().GetInt("limit")

		pool, err := warehousePool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		entries, err := warehouse.NewLoadLog(pool).List(ctx, limit)
		if err != nil {
			return eris.Wrap(err, "status")
		}

		if len(entries) == 0 {
			zap.L().Info("no load runs recorded, run 'tubepulse load' to start one")
			return nil
		}

		formatLoadEntries(os.Stdout, entries)
		return nil
	},
}

func init() {
	statusCmd.Flags().Int("limit", 20, "number of runs to show")
	rootCmd.AddCommand(statusCmd)
}

// formatLoadEntries writes a tabular representation of load runs to w.
func formatLoadEntries(out io.Writer, entries []warehouse.LoadLogEntry) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tDATE\tSTATUS\tSTARTED\tDURATION\tERROR")
	_, _ = fmt.Fprintln(w, "--\t----\t------\t-------\t--------\t-----")

	for _, e := range entries {
		dur := "-"
		if e.CompletedAt != nil {
			dur = e.CompletedAt.Sub(e.StartedAt).Round(time.Second).String()
		}

		errMsg := ""
		if e.Error != "" {
			errMsg = truncate(e.Error, 60)
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.ID,
			e.LoadDate.Format("2006-01-02"),
			e.Status,
			e.StartedAt.Format("2006-01-02 15:04"),
			dur,
			errMsg,
		)
	}
	_ = w.Flush()
}
