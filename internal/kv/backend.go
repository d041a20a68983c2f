// Package kv provides flat string key-value backends for the record store.
package kv

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
)

// Backend is a flat namespace of string keys holding string values.
// Implementations must be safe for concurrent use. Writes to a single key are
// atomic; nothing spans multiple keys.
type Backend interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// List returns every key starting with prefix, sorted ascending.
	List(ctx context.Context, prefix string) ([]string, error)
	// Close releases the backend's resources.
	Close() error
}

// Driver names accepted by Open.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Config selects and locates a backend.
type Config struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// Open connects to the configured backend and prepares its schema.
func Open(ctx context.Context, cfg Config) (Backend, error) {
	switch cfg.Driver {
	case DriverMemory:
		return NewMemory(), nil
	case DriverSQLite:
		dsn := cfg.DatabaseURL
		if dsn == "" {
			dsn = "signatures.db"
		}
		b, err := NewSQLite(dsn)
		if err != nil {
			return nil, err
		}
		if err := b.Migrate(ctx); err != nil {
			b.Close() //nolint:errcheck
			return nil, err
		}
		return b, nil
	case DriverPostgres:
		b, err := NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := b.Migrate(ctx); err != nil {
			b.Close() //nolint:errcheck
			return nil, err
		}
		return b, nil
	case DriverRedis:
		return NewRedis(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("kv: unsupported driver %q", cfg.Driver)
	}
}

// likePattern turns prefix into a LIKE pattern matching keys that start with
// it, escaping LIKE wildcards with a backslash.
func likePattern(prefix string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(prefix) + "%"
}
