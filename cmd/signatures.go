package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/signature-cli/internal/store"
)

var signaturesCmd = &cobra.Command{
	Use:     "signatures",
	Aliases: []string{"sigs"},
	Short:   "List, inspect and delete stored signatures",
}

var signaturesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List signatures, newest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		env, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		asJSON, _ := cmd.Flags().GetBool("json")

		sigs, err := env.Store.GetAllSignatures(ctx)
		if err != nil {
			return eris.Wrap(err, "signatures list")
		}
		if limit > 0 && len(sigs) > limit {
			sigs = sigs[:limit]
		}
		if asJSON {
			return printJSON(cmd.OutOrStdout(), sigs)
		}
		if len(sigs) == 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), "No signatures found.")
			return nil
		}
		formatSignaturesList(cmd.OutOrStdout(), sigs)
		return nil
	},
}

var signaturesGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one signature as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		env, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		l, err := env.Store.LookupSignature(ctx, args[0])
		if err != nil {
			return err
		}
		switch l.State {
		case store.Found:
			return printJSON(cmd.OutOrStdout(), l.Value)
		case store.Corrupt:
			return eris.Wrapf(l.Err, "signature %s is corrupt", args[0])
		default:
			return eris.Errorf("signature %s not found", args[0])
		}
	},
}

var signaturesDeleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete signatures",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		env, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		for _, id := range args {
			if err := env.Store.DeleteSignature(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
		}
		return nil
	},
}

func init() {
	signaturesListCmd.Flags().Int("limit", 0, "maximum rows (0 = all)")
	signaturesListCmd.Flags().Bool("json", false, "print JSON instead of a table")

	signaturesCmd.AddCommand(signaturesListCmd, signaturesGetCmd, signaturesDeleteCmd)
	rootCmd.AddCommand(signaturesCmd)
}
