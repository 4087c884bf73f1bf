package main

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Collect and load in one pass (the daily ETL)",
	Long:  "Runs collect followed by load for today's partition, the same sequence the scheduled trigger performs.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := runCollect(ctx); err != nil {
			return err
		}
		if err := runLoad(ctx, time.Now().UTC()); err != nil {
			return eris.Wrap(err, "run")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
