package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/sells-group/signature-cli/internal/ingest"
	"github.com/sells-group/signature-cli/pkg/predict"
)

func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	if s.ingest == nil {
		writeError(w, http.StatusServiceUnavailable, "classification is not configured")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart form with a file field")
		return
	}
	img, ok := formImage(w, r, "file")
	if !ok {
		return
	}

	sig, err := s.ingest.Classify(r.Context(), ingest.Upload{
		FileName:    img.FileName,
		ContentType: img.ContentType,
		Name:        r.FormValue("name"),
		Data:        img.Data,
	})
	if errors.Is(err, ingest.ErrNotImage) {
		writeError(w, http.StatusBadRequest, "file must be an image (PNG, JPG, JPEG, etc.)")
		return
	}
	if errors.Is(err, ingest.ErrPredict) {
		writeError(w, http.StatusBadGateway, "classification failed")
		return
	}
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sig)
}

func (s *Server) verify(w http.ResponseWriter, r *http.Request) {
	if s.predictor == nil {
		writeError(w, http.StatusServiceUnavailable, "inference service is not configured")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 2*maxUploadBytes)
	if err := r.ParseMultipartForm(2 * maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart form with reference and test fields")
		return
	}
	ref, ok := formImage(w, r, "reference")
	if !ok {
		return
	}
	test, ok := formImage(w, r, "test")
	if !ok {
		return
	}
	v, err := s.predictor.Verify(r.Context(), ref, test)
	if err != nil {
		writeError(w, http.StatusBadGateway, "verification failed")
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) modelInfo(w http.ResponseWriter, r *http.Request) {
	if s.predictor == nil {
		writeError(w, http.StatusServiceUnavailable, "inference service is not configured")
		return
	}
	info, err := s.predictor.ModelInfo(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, "model info unavailable")
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) reloadModel(w http.ResponseWriter, r *http.Request) {
	if s.predictor == nil {
		writeError(w, http.StatusServiceUnavailable, "inference service is not configured")
		return
	}
	res, err := s.predictor.ReloadModel(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, "model reload failed")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func formImage(w http.ResponseWriter, r *http.Request, field string) (predict.Image, bool) {
	f, hdr, err := r.FormFile(field)
	if err != nil {
		writeError(w, http.StatusBadRequest, field+" file is required")
		return predict.Image{}, false
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read "+field)
		return predict.Image{}, false
	}
	return predict.Image{
		FileName:    hdr.Filename,
		ContentType: hdr.Header.Get("Content-Type"),
		Data:        data,
	}, true
}
