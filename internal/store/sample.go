package store

import (
	"context"
	"fmt"
	"time"

	"github.com/sells-group/signature-cli/internal/model"
)

var sampleNames = []string{
	"John Smith", "Jane Doe", "Robert Johnson", "Emily Davis",
	"Michael Brown", "Sarah Wilson", "David Miller", "Lisa Anderson",
}

// SampleSignatures writes n synthetic signatures spread over the last week
// and returns them. Classifications follow a rough 70/20/10 split of
// Authentic, Forged and Stylized. No image data is attached.
func (s *Store) SampleSignatures(ctx context.Context, n int) ([]model.Signature, error) {
	now := s.now()
	out := make([]model.Signature, 0, n)
	for i := 0; i < n; i++ {
		sig := model.Signature{
			Name:      fmt.Sprintf("%s - Sample %d", sampleNames[s.intN(len(sampleNames))], i+1),
			Timestamp: now.Add(-time.Duration(s.intN(7*24*60)) * time.Minute),
		}
		switch r := s.float(); {
		case r < 0.7:
			sig.Classification = model.ClassificationAuthentic
			sig.Confidence = round1(85 + s.float()*15)
		case r < 0.9:
			sig.Classification = model.ClassificationForged
			sig.Confidence = round1(70 + s.float()*25)
		default:
			sig.Classification = model.ClassificationStylized
			sig.Confidence = round1(50 + s.float()*20)
		}
		if err := sig.Extra.Set("status", model.SignatureStatusVerified); err != nil {
			return out, err
		}
		saved, err := s.SaveSignature(ctx, sig)
		if err != nil {
			return out, err
		}
		out = append(out, saved)
	}
	return out, nil
}
