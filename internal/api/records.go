package api

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sells-group/signature-cli/internal/model"
	"github.com/sells-group/signature-cli/internal/store"
)

// pathID returns the unescaped {id} path parameter. chi matches on
// r.URL.RawPath when it is set, so only then is the parameter still escaped.
func pathID(r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if r.URL.RawPath != "" {
		var err error
		if id, err = url.PathUnescape(id); err != nil {
			return "", false
		}
	}
	return id, id != ""
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status":    "ok",
		"timestamp": s.now().UTC(),
	}
	if s.predictor != nil {
		h, err := s.predictor.Health(r.Context())
		if err == nil {
			resp["model_loaded"] = h.ModelLoaded
			resp["inference"] = h.Status
		} else {
			resp["inference"] = "unavailable"
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) listSignatures(w http.ResponseWriter, r *http.Request) {
	sigs, err := s.store.GetAllSignatures(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}
	if c := r.URL.Query().Get("classification"); c != "" {
		filtered := sigs[:0]
		for _, sig := range sigs {
			if string(sig.Classification) == c {
				filtered = append(filtered, sig)
			}
		}
		sigs = filtered
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		sigs = sigs[:min(n, len(sigs))]
	}
	writeJSON(w, http.StatusOK, sigs)
}

func (s *Server) createSignature(w http.ResponseWriter, r *http.Request) {
	var sig model.Signature
	if !decodeBody(w, r, &sig) {
		return
	}
	s.saveSignature(w, r, sig, http.StatusCreated)
}

func (s *Server) putSignature(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var sig model.Signature
	if !decodeBody(w, r, &sig) {
		return
	}
	sig.ID = id
	s.saveSignature(w, r, sig, http.StatusOK)
}

func (s *Server) saveSignature(w http.ResponseWriter, r *http.Request, sig model.Signature, status int) {
	if sig.Classification != "" && !sig.Classification.Valid() {
		writeError(w, http.StatusBadRequest, "classification must be Authentic, Forged or Stylized")
		return
	}
	if sig.Confidence < 0 || sig.Confidence > 100 {
		writeError(w, http.StatusBadRequest, "confidence must be between 0 and 100")
		return
	}
	saved, err := s.store.SaveSignature(r.Context(), sig)
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, status, saved)
}

func (s *Server) getSignature(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	l, err := s.store.LookupSignature(r.Context(), id)
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeLookup(w, l, "signature")
}

func (s *Server) deleteSignature(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := s.store.DeleteSignature(r.Context(), id); err != nil {
		internalError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listBatches(w http.ResponseWriter, r *http.Request) {
	batches, err := s.store.GetAllBatches(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, batches)
}

func (s *Server) createBatch(w http.ResponseWriter, r *http.Request) {
	var b model.Batch
	if !decodeBody(w, r, &b) {
		return
	}
	saved, err := s.store.SaveBatch(r.Context(), b)
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) putBatch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var b model.Batch
	if !decodeBody(w, r, &b) {
		return
	}
	b.ID = id
	saved, err := s.store.SaveBatch(r.Context(), b)
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) getBatch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	l, err := s.store.LookupBatch(r.Context(), id)
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeLookup(w, l, "batch")
}

func (s *Server) deleteBatch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := s.store.DeleteBatch(r.Context(), id); err != nil {
		internalError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// summarizeBatch recomputes a batch's counters from the stored signatures.
func (s *Server) summarizeBatch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	b, err := s.store.GetBatch(r.Context(), id)
	if err != nil {
		internalError(w, r, err)
		return
	}
	if b == nil {
		writeError(w, http.StatusNotFound, "batch not found")
		return
	}
	sigs, err := s.store.GetAllSignatures(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}
	saved, err := s.store.SaveBatch(r.Context(), store.SummarizeBatch(*b, sigs))
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func writeLookup[T any](w http.ResponseWriter, l store.Lookup[T], kind string) {
	switch l.State {
	case store.Found:
		writeJSON(w, http.StatusOK, l.Value)
	case store.Corrupt:
		writeError(w, http.StatusUnprocessableEntity, kind+" record is corrupt")
	default:
		writeError(w, http.StatusNotFound, kind+" not found")
	}
}
