package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rotisserie/eris"

	"github.com/sells-group/signature-cli/internal/model"
)

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(v), "encode output")
}

func formatSignaturesList(out io.Writer, sigs []model.Signature) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tCLASSIFICATION\tCONFIDENCE\tSTATUS\tTIMESTAMP")
	_, _ = fmt.Fprintln(w, "--\t----\t--------------\t----------\t------\t---------")

	for _, s := range sigs {
		name := s.Name
		if len(name) > 30 {
			name = name[:27] + "..."
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%s\t%s\n",
			s.ID,
			name,
			s.Classification,
			s.Confidence,
			s.Status(),
			s.Timestamp.Format("2006-01-02 15:04"),
		)
	}
	_ = w.Flush()
}

func formatBatchesList(out io.Writer, batches []model.Batch) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tTOTAL\tVERIFIED\tPROCESSING\tFORGERIES\tMODIFIED")
	_, _ = fmt.Fprintln(w, "--\t----\t-----\t--------\t----------\t---------\t--------")

	for _, b := range batches {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
			b.ID,
			b.Name,
			b.TotalSignatures,
			b.Verified,
			b.Processing,
			b.Forgeries,
			b.LastModified.Format("2006-01-02 15:04"),
		)
	}
	_ = w.Flush()
}
