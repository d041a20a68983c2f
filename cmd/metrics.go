package main

import (
	"github.com/spf13/cobra"

	"github.com/sells-group/signature-cli/internal/model"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Show dashboard metrics",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		recalc, _ := cmd.Flags().GetBool("recalculate")

		env, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		var m model.Metrics
		if recalc {
			m, err = env.Store.RecalculateMetrics(ctx)
		} else {
			m, err = env.Store.GetMetrics(ctx)
		}
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), m)
	},
}

func init() {
	metricsCmd.Flags().Bool("recalculate", false, "recompute metrics from stored signatures before printing")
	rootCmd.AddCommand(metricsCmd)
}
