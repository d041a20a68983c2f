package store

import (
	"context"
	"slices"

	"github.com/rotisserie/eris"

	"github.com/sells-group/signature-cli/internal/model"
)

// SaveSignature writes sig, replacing any record with the same id. A missing
// id is allocated with NewSignatureID and a zero timestamp is set to now.
func (s *Store) SaveSignature(ctx context.Context, sig model.Signature) (model.Signature, error) {
	if sig.ID == "" {
		id, err := s.NewSignatureID(ctx)
		if err != nil {
			return sig, err
		}
		sig.ID = id
	}
	if sig.Timestamp.IsZero() {
		sig.Timestamp = s.now()
	}
	if err := writeJSON(ctx, s, s.signatureKey(sig.ID), sig); err != nil {
		return sig, err
	}
	return sig, nil
}

// LookupSignature reads one signature and reports whether it was found,
// absent, or corrupt.
func (s *Store) LookupSignature(ctx context.Context, id string) (Lookup[model.Signature], error) {
	return readJSON[model.Signature](ctx, s, s.signatureKey(id))
}

// GetSignature returns the signature with id, or nil when it is absent or
// cannot be decoded.
func (s *Store) GetSignature(ctx context.Context, id string) (*model.Signature, error) {
	l, err := s.LookupSignature(ctx, id)
	if err != nil {
		return nil, err
	}
	return l.Ptr(), nil
}

// GetAllSignatures returns every readable signature, most recent first.
func (s *Store) GetAllSignatures(ctx context.Context) ([]model.Signature, error) {
	sigs, err := readAll[model.Signature](ctx, s, s.signaturePrefix())
	if err != nil {
		return nil, eris.Wrap(err, "store: get all signatures")
	}
	slices.SortStableFunc(sigs, func(a, b model.Signature) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return sigs, nil
}

// DeleteSignature removes the signature with id. Absent ids are ignored.
func (s *Store) DeleteSignature(ctx context.Context, id string) error {
	return eris.Wrapf(s.backend.Delete(ctx, s.signatureKey(id)), "store: delete signature %s", id)
}
