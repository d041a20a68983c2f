// Package api exposes the record store, image classification and the
// inference service over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/sells-group/signature-cli/internal/ingest"
	"github.com/sells-group/signature-cli/internal/store"
	"github.com/sells-group/signature-cli/pkg/predict"
)

// maxUploadBytes bounds multipart and JSON request bodies.
const maxUploadBytes = 10 << 20

// Server holds the API dependencies.
type Server struct {
	store     *store.Store
	ingest    *ingest.Service
	predictor predict.Client
	origins   []string
	now       func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithAllowedOrigins sets the CORS allowed origins. Defaults to "*".
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.origins = origins
		}
	}
}

// WithClock overrides the time source used in responses.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// NewServer creates a Server.
func NewServer(st *store.Store, svc *ingest.Service, predictor predict.Client, opts ...Option) *Server {
	s := &Server{
		store:     st,
		ingest:    svc,
		predictor: predictor,
		origins:   []string{"*"},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed HTTP handler. Record ids in paths must be
// escaped, so batch "#24588" is requested as /batches/%2324588.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/health", s.health)

	r.Route("/signatures", func(r chi.Router) {
		r.Get("/", s.listSignatures)
		r.Post("/", s.createSignature)
		r.Get("/{id}", s.getSignature)
		r.Put("/{id}", s.putSignature)
		r.Delete("/{id}", s.deleteSignature)
	})

	r.Route("/batches", func(r chi.Router) {
		r.Get("/", s.listBatches)
		r.Post("/", s.createBatch)
		r.Get("/{id}", s.getBatch)
		r.Put("/{id}", s.putBatch)
		r.Delete("/{id}", s.deleteBatch)
		r.Post("/{id}/summarize", s.summarizeBatch)
	})

	r.Get("/metrics", s.getMetrics)
	r.Post("/metrics/recalculate", s.recalculateMetrics)

	r.Get("/prefs", s.getPrefs)
	r.Put("/prefs", s.putPrefs)

	r.Get("/export", s.exportData)
	r.Post("/import", s.importData)
	r.Post("/sample", s.sample)

	r.Post("/upload", s.upload)
	r.Post("/verify", s.verify)
	r.Get("/model/info", s.modelInfo)
	r.Post("/model/reload", s.reloadModel)

	return r
}
