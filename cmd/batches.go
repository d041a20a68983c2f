package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/signature-cli/internal/model"
	"github.com/sells-group/signature-cli/internal/store"
)

var batchesCmd = &cobra.Command{
	Use:   "batches",
	Short: "Manage signature batches",
}

var batchesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List batches, most recently modified first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		env, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		batches, err := env.Store.GetAllBatches(ctx)
		if err != nil {
			return eris.Wrap(err, "batches list")
		}
		if len(batches) == 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), "No batches found.")
			return nil
		}
		formatBatchesList(cmd.OutOrStdout(), batches)
		return nil
	},
}

var batchesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a batch",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		name, _ := cmd.Flags().GetString("name")
		id, _ := cmd.Flags().GetString("id")

		env, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		b, err := env.Store.SaveBatch(ctx, model.Batch{ID: id, Name: name})
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), b)
	},
}

var batchesSummarizeCmd = &cobra.Command{
	Use:   "summarize <id>",
	Short: "Recompute a batch's counters from the stored signatures",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		env, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		b, err := env.Store.GetBatch(ctx, args[0])
		if err != nil {
			return err
		}
		if b == nil {
			return eris.Errorf("batch %s not found", args[0])
		}
		sigs, err := env.Store.GetAllSignatures(ctx)
		if err != nil {
			return err
		}
		saved, err := env.Store.SaveBatch(ctx, store.SummarizeBatch(*b, sigs))
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), saved)
	},
}

var batchesDeleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete batches",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		env, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		for _, id := range args {
			if err := env.Store.DeleteBatch(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
		}
		return nil
	},
}

func init() {
	batchesCreateCmd.Flags().String("name", "", "batch name")
	batchesCreateCmd.Flags().String("id", "", "batch id (default: generated #NNNNN)")
	_ = batchesCreateCmd.MarkFlagRequired("name")

	batchesCmd.AddCommand(batchesListCmd, batchesCreateCmd, batchesSummarizeCmd, batchesDeleteCmd)
	rootCmd.AddCommand(batchesCmd)
}
