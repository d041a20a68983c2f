package store

import (
	"context"
	"encoding/json"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// LookupState says what a read found.
type LookupState int

const (
	// NotFound means the key is absent.
	NotFound LookupState = iota
	// Found means the value decoded cleanly.
	Found
	// Corrupt means a value exists but does not decode.
	Corrupt
)

func (s LookupState) String() string {
	switch s {
	case Found:
		return "found"
	case Corrupt:
		return "corrupt"
	default:
		return "not_found"
	}
}

// Lookup is the outcome of reading one record. Err is set only when State
// is Corrupt.
type Lookup[T any] struct {
	State LookupState
	Value T
	Err   error
}

// Ptr returns the value when found and nil otherwise.
func (l Lookup[T]) Ptr() *T {
	if l.State != Found {
		return nil
	}
	v := l.Value
	return &v
}

// readJSON loads and decodes key. Only backend failures are returned as
// errors; undecodable values come back as Corrupt and are logged.
func readJSON[T any](ctx context.Context, s *Store, key string) (Lookup[T], error) {
	var out Lookup[T]
	raw, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		return out, eris.Wrapf(err, "store: read %s", key)
	}
	if !ok {
		return out, nil
	}
	if err := json.Unmarshal([]byte(raw), &out.Value); err != nil {
		zap.L().Warn("store: dropping undecodable record",
			zap.String("key", key),
			zap.Error(err),
		)
		var zero T
		return Lookup[T]{State: Corrupt, Value: zero, Err: err}, nil
	}
	out.State = Found
	return out, nil
}

func writeJSON(ctx context.Context, s *Store, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return eris.Wrapf(err, "store: encode %s", key)
	}
	return eris.Wrapf(s.backend.Set(ctx, key, string(b)), "store: write %s", key)
}
