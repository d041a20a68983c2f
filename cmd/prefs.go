package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or change user preferences",
}

var prefsGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print preferences",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		env, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		p, err := env.Store.GetUserPrefs(ctx)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), p)
	},
}

var prefsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update preferences; unset flags keep their stored value",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		env, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		p, err := env.Store.GetUserPrefs(ctx)
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		if flags.Changed("theme") {
			p.Theme, _ = flags.GetString("theme")
		}
		if flags.Changed("default-view") {
			p.DefaultView, _ = flags.GetString("default-view")
		}
		if flags.Changed("items-per-page") {
			p.ItemsPerPage, _ = flags.GetInt("items-per-page")
			if p.ItemsPerPage < 1 {
				return eris.New("items-per-page must be >= 1")
			}
		}
		if flags.Changed("auto-save") {
			p.AutoSave, _ = flags.GetBool("auto-save")
		}
		if flags.Changed("notifications") {
			p.Notifications, _ = flags.GetBool("notifications")
		}

		saved, err := env.Store.SaveUserPrefs(ctx, p)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), saved)
	},
}

func init() {
	prefsSetCmd.Flags().String("theme", "", "light or dark")
	prefsSetCmd.Flags().String("default-view", "", "grid or list")
	prefsSetCmd.Flags().Int("items-per-page", 0, "rows per page")
	prefsSetCmd.Flags().Bool("auto-save", true, "save automatically")
	prefsSetCmd.Flags().Bool("notifications", true, "show notifications")

	prefsCmd.AddCommand(prefsGetCmd, prefsSetCmd)
	rootCmd.AddCommand(prefsCmd)
}
