package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/signature-cli/internal/model"
	"github.com/sells-group/signature-cli/internal/report"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all records as JSON or an XLSX workbook",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		outPath, _ := cmd.Flags().GetString("out")
		format, _ := cmd.Flags().GetString("format")
		if format != "json" && format != "xlsx" {
			return eris.Errorf("unsupported format %q (json, xlsx)", format)
		}

		env, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		snap, err := env.Store.ExportAllData(ctx)
		if err != nil {
			return err
		}

		if outPath == "" {
			err = writeExport(cmd.OutOrStdout(), format, snap)
		} else {
			err = writeExportFile(outPath, format, snap)
		}
		if err != nil {
			return err
		}
		zap.L().Info("export complete",
			zap.Int("signatures", len(snap.Signatures)),
			zap.Int("batches", len(snap.Batches)),
			zap.String("format", format),
		)
		return nil
	},
}

func writeExport(w io.Writer, format string, snap model.Snapshot) error {
	if format == "xlsx" {
		return report.WriteXLSX(w, snap.Signatures, snap.Batches)
	}
	return printJSON(w, snap)
}

// writeExportFile writes the export to path. A failed close is reported,
// since buffered data may not have reached the disk.
func writeExportFile(path, format string, snap model.Snapshot) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = eris.Wrapf(cerr, "close %s", path)
		}
	}()
	return writeExport(f, format, snap)
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import records from a JSON export",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		path, _ := cmd.Flags().GetString("file")

		raw, err := os.ReadFile(path)
		if err != nil {
			return eris.Wrapf(err, "read %s", path)
		}
		var snap model.Snapshot
		if err := json.Unmarshal(raw, &snap); err != nil {
			return eris.Wrapf(err, "parse %s", path)
		}

		env, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		res, err := env.Store.ImportData(ctx, snap)
		if err != nil {
			return eris.Wrapf(err, "import stopped after %d signatures, %d batches", res.Signatures, res.Batches)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d signatures, %d batches (metrics: %t, prefs: %t)\n",
			res.Signatures, res.Batches, res.Metrics, res.UserPrefs)
		return nil
	},
}

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Generate synthetic sample signatures",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		count, _ := cmd.Flags().GetInt("count")
		if count < 1 {
			return eris.New("count must be >= 1")
		}

		env, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		sigs, err := env.Store.SampleSignatures(ctx, count)
		if err != nil {
			return err
		}
		if _, err := env.Store.RecalculateMetrics(ctx); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %d sample signatures\n", len(sigs))
		return nil
	},
}

func init() {
	exportCmd.Flags().String("out", "", "output file (default stdout)")
	exportCmd.Flags().String("format", "json", "json or xlsx")

	importCmd.Flags().String("file", "", "JSON export to import")
	_ = importCmd.MarkFlagRequired("file")

	sampleCmd.Flags().Int("count", 10, "number of signatures to generate")

	rootCmd.AddCommand(exportCmd, importCmd, sampleCmd)
}
