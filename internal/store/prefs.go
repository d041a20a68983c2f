package store

import (
	"context"

	"github.com/sells-group/signature-cli/internal/model"
)

// SaveUserPrefs replaces the stored preferences with p.
func (s *Store) SaveUserPrefs(ctx context.Context, p model.UserPrefs) (model.UserPrefs, error) {
	if err := writeJSON(ctx, s, s.prefsKey(), p); err != nil {
		return p, err
	}
	return p, nil
}

// GetUserPrefs returns the stored preferences, or model.DefaultUserPrefs
// when none are stored or the stored value cannot be decoded.
func (s *Store) GetUserPrefs(ctx context.Context) (model.UserPrefs, error) {
	l, err := readJSON[model.UserPrefs](ctx, s, s.prefsKey())
	if err != nil {
		return model.UserPrefs{}, err
	}
	if l.State != Found {
		return model.DefaultUserPrefs(), nil
	}
	return l.Value, nil
}
