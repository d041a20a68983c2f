package store

import (
	"context"
	"slices"

	"github.com/rotisserie/eris"

	"github.com/sells-group/signature-cli/internal/model"
)

const defaultBatchName = "Default Batch"

// SaveBatch writes b with LastModified set to now, whatever the caller
// passed. A missing id is allocated and a zero CreatedDate is set to now.
func (s *Store) SaveBatch(ctx context.Context, b model.Batch) (model.Batch, error) {
	if b.ID == "" {
		id, err := s.NewBatchID(ctx)
		if err != nil {
			return b, err
		}
		b.ID = id
	}
	now := s.now()
	if b.CreatedDate.IsZero() {
		b.CreatedDate = now
	}
	b.LastModified = now
	if err := writeJSON(ctx, s, s.batchKey(b.ID), b); err != nil {
		return b, err
	}
	return b, nil
}

// LookupBatch reads one batch and reports whether it was found, absent, or
// corrupt.
func (s *Store) LookupBatch(ctx context.Context, id string) (Lookup[model.Batch], error) {
	return readJSON[model.Batch](ctx, s, s.batchKey(id))
}

// GetBatch returns the batch with id, or nil when absent or undecodable.
func (s *Store) GetBatch(ctx context.Context, id string) (*model.Batch, error) {
	l, err := s.LookupBatch(ctx, id)
	if err != nil {
		return nil, err
	}
	return l.Ptr(), nil
}

// GetAllBatches returns every readable batch, most recently modified first.
func (s *Store) GetAllBatches(ctx context.Context) ([]model.Batch, error) {
	batches, err := readAll[model.Batch](ctx, s, s.batchPrefix())
	if err != nil {
		return nil, eris.Wrap(err, "store: get all batches")
	}
	slices.SortStableFunc(batches, func(a, b model.Batch) int {
		return b.LastModified.Compare(a.LastModified)
	})
	return batches, nil
}

// DeleteBatch removes the batch with id. Absent ids are ignored.
func (s *Store) DeleteBatch(ctx context.Context, id string) error {
	return eris.Wrapf(s.backend.Delete(ctx, s.batchKey(id)), "store: delete batch %s", id)
}

// EnsureDefaultBatch returns the most recently modified batch, creating the
// default batch when none exist.
func (s *Store) EnsureDefaultBatch(ctx context.Context) (model.Batch, error) {
	batches, err := s.GetAllBatches(ctx)
	if err != nil {
		return model.Batch{}, err
	}
	if len(batches) > 0 {
		return batches[0], nil
	}
	return s.SaveBatch(ctx, model.Batch{ID: model.DefaultBatchID, Name: defaultBatchName})
}

// SummarizeBatch recomputes b's counters from sigs: verified counts
// Authentic signatures, forgeries counts Forged ones, and processing counts
// records whose status is "processing".
func SummarizeBatch(b model.Batch, sigs []model.Signature) model.Batch {
	b.TotalSignatures = len(sigs)
	b.Verified, b.Forgeries, b.Processing = 0, 0, 0
	for _, sig := range sigs {
		if sig.Status() == model.SignatureStatusProcessing {
			b.Processing++
			continue
		}
		switch sig.Classification {
		case model.ClassificationAuthentic:
			b.Verified++
		case model.ClassificationForged:
			b.Forgeries++
		}
	}
	return b
}
