// Package report renders store contents as spreadsheets.
package report

import (
	"io"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/signature-cli/internal/model"
)

// Sheet names in the generated workbook.
const (
	SignaturesSheet = "Signatures"
	BatchesSheet    = "Batches"
)

var (
	signatureHeader = []string{"ID", "Name", "Timestamp", "Classification", "Confidence", "Status", "Has Image"}
	batchHeader     = []string{"ID", "Name", "Total", "Verified", "Processing", "Forgeries", "Created", "Last Modified"}
)

// WriteXLSX writes a workbook with one row per signature and one row per
// batch, each sheet headed by a title row. Image data is not exported.
func WriteXLSX(w io.Writer, sigs []model.Signature, batches []model.Batch) error {
	f := xlsx.NewFile()

	sheet, err := f.AddSheet(SignaturesSheet)
	if err != nil {
		return eris.Wrap(err, "report: add signatures sheet")
	}
	addStringRow(sheet, signatureHeader)
	for _, sig := range sigs {
		row := sheet.AddRow()
		row.AddCell().SetString(sig.ID)
		row.AddCell().SetString(sig.Name)
		row.AddCell().SetString(formatTime(sig.Timestamp))
		row.AddCell().SetString(string(sig.Classification))
		row.AddCell().SetFloat(sig.Confidence)
		row.AddCell().SetString(sig.Status())
		row.AddCell().SetString(strconv.FormatBool(sig.ImageData != nil))
	}

	sheet, err = f.AddSheet(BatchesSheet)
	if err != nil {
		return eris.Wrap(err, "report: add batches sheet")
	}
	addStringRow(sheet, batchHeader)
	for _, b := range batches {
		row := sheet.AddRow()
		row.AddCell().SetString(b.ID)
		row.AddCell().SetString(b.Name)
		row.AddCell().SetInt(b.TotalSignatures)
		row.AddCell().SetInt(b.Verified)
		row.AddCell().SetInt(b.Processing)
		row.AddCell().SetInt(b.Forgeries)
		row.AddCell().SetString(formatTime(b.CreatedDate))
		row.AddCell().SetString(formatTime(b.LastModified))
	}

	return eris.Wrap(f.Write(w), "report: write workbook")
}

func addStringRow(sheet *xlsx.Sheet, values []string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
