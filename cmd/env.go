package main

import (
	"context"
	"math"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/signature-cli/internal/ingest"
	"github.com/sells-group/signature-cli/internal/kv"
	"github.com/sells-group/signature-cli/internal/resilience"
	"github.com/sells-group/signature-cli/internal/store"
	"github.com/sells-group/signature-cli/pkg/predict"
)

// appEnv bundles the dependencies built from config for one command.
type appEnv struct {
	Backend   kv.Backend
	Store     *store.Store
	Predictor predict.Client
	Ingest    *ingest.Service
}

// Close releases the backend.
func (e *appEnv) Close() {
	if e.Backend == nil {
		return
	}
	if err := e.Backend.Close(); err != nil {
		zap.L().Warn("close backend", zap.Error(err))
	}
}

// initStore opens the configured backend and wraps it in a Store.
func initStore(ctx context.Context) (*appEnv, error) {
	if err := cfg.Validate("store"); err != nil {
		return nil, err
	}
	backend, err := kv.Open(ctx, cfg.Store.KV())
	if err != nil {
		return nil, eris.Wrap(err, "open store backend")
	}
	st := store.New(backend,
		store.WithNamespace(cfg.Store.Namespace),
		store.WithFanout(cfg.Store.Fanout),
	)
	zap.L().Debug("store opened",
		zap.String("driver", cfg.Store.Driver),
		zap.String("namespace", cfg.Store.Namespace),
	)
	return &appEnv{Backend: backend, Store: st}, nil
}

// initEnv opens the store and builds the prediction client and ingest
// service on top of it.
func initEnv(ctx context.Context) (*appEnv, error) {
	if err := cfg.Validate("predict"); err != nil {
		return nil, err
	}
	env, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	env.Predictor = initPredictor()
	env.Ingest = ingest.NewService(env.Store, env.Predictor, ingest.Options{
		EmbedImages:       cfg.Ingest.EmbedImages,
		StylizedThreshold: cfg.Ingest.StylizedThreshold,
	})
	return env, nil
}

func initPredictor() predict.Client {
	retry := resilience.DefaultRetryConfig()
	retry.MaxAttempts = cfg.Predict.MaxAttempts

	client := predict.NewClient(cfg.Predict.BaseURL,
		predict.WithTimeout(time.Duration(cfg.Predict.TimeoutSecs)*time.Second),
		predict.WithRateLimit(cfg.Predict.RatePerSec, int(math.Ceil(cfg.Predict.RatePerSec))),
		predict.WithRetry(retry),
	)
	if !cfg.Predict.Fallback {
		return client
	}
	return predict.NewFallback(client)
}
