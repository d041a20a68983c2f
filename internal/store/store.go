// Package store implements the local record store: typed CRUD over
// signatures, batches, metrics and user preferences on top of a flat
// key-value backend.
package store

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/sells-group/signature-cli/internal/kv"
)

// DefaultNamespace prefixes every key the store writes.
const DefaultNamespace = "sigverify:"

const defaultFanout = 16

// Store provides record operations over a kv.Backend. It is safe for
// concurrent use but offers no transactions: every save is a single put and
// concurrent writers to one key race with last-write-wins.
type Store struct {
	backend kv.Backend
	ns      string
	fanout  int
	now     func() time.Time

	rngMu sync.Mutex
	rng   *rand.Rand
}

// Option configures a Store.
type Option func(*Store)

// WithNamespace overrides the key prefix.
func WithNamespace(ns string) Option {
	return func(s *Store) { s.ns = ns }
}

// WithClock overrides the time source used for ids and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithRandSource seeds id generation, sample data and synthetic trends.
func WithRandSource(src rand.Source) Option {
	return func(s *Store) { s.rng = rand.New(src) }
}

// WithFanout bounds the number of concurrent reads issued by bulk operations.
func WithFanout(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.fanout = n
		}
	}
}

// New creates a Store on backend.
func New(backend kv.Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		ns:      DefaultNamespace,
		fanout:  defaultFanout,
		now:     func() time.Time { return time.Now().UTC() },
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Backend returns the underlying backend.
func (s *Store) Backend() kv.Backend {
	return s.backend
}

func (s *Store) signaturePrefix() string { return s.ns + "signature:" }
func (s *Store) batchPrefix() string     { return s.ns + "batch:" }
func (s *Store) signatureKey(id string) string {
	return s.signaturePrefix() + id
}
func (s *Store) batchKey(id string) string { return s.batchPrefix() + id }
func (s *Store) metricsKey() string        { return s.ns + "metrics" }
func (s *Store) prefsKey() string          { return s.ns + "userPrefs" }

func (s *Store) intN(n int) int {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.IntN(n)
}

func (s *Store) float() float64 {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.Float64()
}
