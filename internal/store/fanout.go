package store

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"
)

// readAll lists prefix and reads every key concurrently, waiting for all
// reads. Absent and corrupt values are skipped; any backend error aborts.
func readAll[T any](ctx context.Context, s *Store, prefix string) ([]T, error) {
	keys, err := s.backend.List(ctx, prefix)
	if err != nil {
		return nil, eris.Wrapf(err, "store: list %s", strings.TrimSuffix(prefix, ":"))
	}

	results := make([]Lookup[T], len(keys))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fanout)
	for i, key := range keys {
		g.Go(func() error {
			l, err := readJSON[T](gctx, s, key)
			if err != nil {
				return err
			}
			results[i] = l
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]T, 0, len(results))
	for _, l := range results {
		if l.State == Found {
			out = append(out, l.Value)
		}
	}
	return out, nil
}
