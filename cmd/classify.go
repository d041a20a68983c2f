package main

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/signature-cli/internal/ingest"
	"github.com/sells-group/signature-cli/pkg/predict"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify a signature image and store the result",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		path, _ := cmd.Flags().GetString("file")
		name, _ := cmd.Flags().GetString("name")

		data, err := os.ReadFile(path)
		if err != nil {
			return eris.Wrapf(err, "read %s", path)
		}

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		sig, err := env.Ingest.Classify(ctx, ingest.Upload{
			FileName: filepath.Base(path),
			Name:     name,
			Data:     data,
		})
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), sig)
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Compare a test signature against a genuine reference",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		refPath, _ := cmd.Flags().GetString("reference")
		testPath, _ := cmd.Flags().GetString("test")

		ref, err := readImage(refPath)
		if err != nil {
			return err
		}
		test, err := readImage(testPath)
		if err != nil {
			return err
		}

		if err := cfg.Validate("predict"); err != nil {
			return err
		}
		v, err := initPredictor().Verify(ctx, ref, test)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), v)
	},
}

func readImage(path string) (predict.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return predict.Image{}, eris.Wrapf(err, "read %s", path)
	}
	return predict.Image{FileName: filepath.Base(path), Data: data}, nil
}

func init() {
	classifyCmd.Flags().String("file", "", "signature image to classify")
	classifyCmd.Flags().String("name", "", "display name (default: file name)")
	_ = classifyCmd.MarkFlagRequired("file")

	verifyCmd.Flags().String("reference", "", "known genuine signature image")
	verifyCmd.Flags().String("test", "", "signature image to verify")
	_ = verifyCmd.MarkFlagRequired("reference")
	_ = verifyCmd.MarkFlagRequired("test")

	rootCmd.AddCommand(classifyCmd, verifyCmd)
}
