package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
)

const idAttempts = 10

// GenerateSignatureID returns SIG-<YYYYMMDD>-<NNN> from today's date and a
// random three-digit suffix. Ids can collide; use NewSignatureID when the
// id must not already exist.
func (s *Store) GenerateSignatureID() string {
	return fmt.Sprintf("SIG-%s-%03d", s.now().Format("20060102"), s.intN(1000))
}

// GenerateBatchID returns #NNNNN with a value in [10000, 99999].
func (s *Store) GenerateBatchID() string {
	return fmt.Sprintf("#%d", 10000+s.intN(90000))
}

// NewSignatureID generates signature ids until one is unused in the
// backend. After repeated collisions it falls back to a random hex suffix.
func (s *Store) NewSignatureID(ctx context.Context) (string, error) {
	return s.newID(ctx, s.GenerateSignatureID, s.signatureKey, func() string {
		return fmt.Sprintf("SIG-%s-%s", s.now().Format("20060102"), shortToken())
	})
}

// NewBatchID is NewSignatureID for batches.
func (s *Store) NewBatchID(ctx context.Context) (string, error) {
	return s.newID(ctx, s.GenerateBatchID, s.batchKey, func() string {
		return "#" + shortToken()
	})
}

func (s *Store) newID(ctx context.Context, gen func() string, key func(string) string, fallback func() string) (string, error) {
	for i := 0; i < idAttempts; i++ {
		id := gen()
		_, taken, err := s.backend.Get(ctx, key(id))
		if err != nil {
			return "", eris.Wrap(err, "store: check id")
		}
		if !taken {
			return id, nil
		}
	}
	return fallback(), nil
}

func shortToken() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}
