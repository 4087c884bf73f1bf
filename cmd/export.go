package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/tubepulse/tubepulse-cli/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a date's aggregate rollup to XLSX",
	Long:  "Writes the (country, sentiment) daily aggregate rows for a date to an XLSX report.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		date, err := dateFlag(cmd)
		if err != nil {
			return eris.Wrap(err, "export: parse --date")
		}
		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = fmt.Sprintf("tubepulse_%s.xlsx", date.Format("2006-01-02"))
		}

		pool, err := warehousePool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		rows, err := export.FetchDailyAggregates(ctx, pool, date)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			fmt.Printf("No aggregate rows for %s\n", date.Format("2006-01-02"))
			return nil
		}

		if err := export.WriteReport(rows, out); err != nil {
			return err
		}

		fmt.Printf("Wrote %d rows to %s\n", len(rows), out)
		return nil
	},
}

func init() {
	exportCmd.Flags().String("date", "", "aggregate date (YYYY-MM-DD, default today)")
	exportCmd.Flags().String("out", "", "output path (default tubepulse_<date>.xlsx)")
	rootCmd.AddCommand(exportCmd)
}
