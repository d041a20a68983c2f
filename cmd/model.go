package main

import (
	"github.com/spf13/cobra"
)

var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Query the inference service",
}

var modelHealthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check inference service health",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("predict"); err != nil {
			return err
		}
		h, err := initPredictor().Health(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), h)
	},
}

var modelInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the loaded model's architecture",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("predict"); err != nil {
			return err
		}
		info, err := initPredictor().ModelInfo(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), info)
	},
}

var modelReloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Ask the inference service to reload its model",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("predict"); err != nil {
			return err
		}
		r, err := initPredictor().ReloadModel(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), r)
	},
}

func init() {
	modelCmd.AddCommand(modelHealthCmd, modelInfoCmd, modelReloadCmd)
	rootCmd.AddCommand(modelCmd)
}
