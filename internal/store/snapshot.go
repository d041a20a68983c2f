package store

import (
	"context"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/signature-cli/internal/model"
)

// ImportResult counts the records written by ImportData.
type ImportResult struct {
	Signatures int  `json:"signatures"`
	Batches    int  `json:"batches"`
	Metrics    bool `json:"metrics"`
	UserPrefs  bool `json:"userPrefs"`
}

// ExportAllData reads every section into a Snapshot. Sections are read
// concurrently without locking, so writes racing with an export may or may
// not be included.
func (s *Store) ExportAllData(ctx context.Context) (model.Snapshot, error) {
	var (
		snap    model.Snapshot
		metrics model.Metrics
		prefs   model.UserPrefs
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap.Signatures, err = s.GetAllSignatures(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Batches, err = s.GetAllBatches(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		metrics, err = s.GetMetrics(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		prefs, err = s.GetUserPrefs(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.Snapshot{}, eris.Wrap(err, "store: export")
	}
	snap.Metrics = &metrics
	snap.UserPrefs = &prefs
	snap.ExportedAt = s.now()
	return snap, nil
}

// ImportData re-saves every record in snap through the matching save
// operation, one at a time. Nil sections are skipped. It is not
// transactional: on error the records written so far stay written and the
// returned counts say how far it got.
func (s *Store) ImportData(ctx context.Context, snap model.Snapshot) (ImportResult, error) {
	var res ImportResult
	for _, sig := range snap.Signatures {
		if _, err := s.SaveSignature(ctx, sig); err != nil {
			return res, eris.Wrapf(err, "store: import signature %s", sig.ID)
		}
		res.Signatures++
	}
	for _, b := range snap.Batches {
		if _, err := s.SaveBatch(ctx, b); err != nil {
			return res, eris.Wrapf(err, "store: import batch %s", b.ID)
		}
		res.Batches++
	}
	if snap.Metrics != nil {
		if _, err := s.SaveMetrics(ctx, *snap.Metrics); err != nil {
			return res, eris.Wrap(err, "store: import metrics")
		}
		res.Metrics = true
	}
	if snap.UserPrefs != nil {
		if _, err := s.SaveUserPrefs(ctx, *snap.UserPrefs); err != nil {
			return res, eris.Wrap(err, "store: import user prefs")
		}
		res.UserPrefs = true
	}
	return res, nil
}
