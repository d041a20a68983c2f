package api

import (
	"net/http"
	"strconv"

	"github.com/sells-group/signature-cli/internal/model"
	"github.com/sells-group/signature-cli/internal/report"
)

const maxSampleCount = 500

func (s *Server) getMetrics(w http.ResponseWriter, r *http.Request) {
	m, err := s.store.GetMetrics(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) recalculateMetrics(w http.ResponseWriter, r *http.Request) {
	m, err := s.store.RecalculateMetrics(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) getPrefs(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.GetUserPrefs(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) putPrefs(w http.ResponseWriter, r *http.Request) {
	var p model.UserPrefs
	if !decodeBody(w, r, &p) {
		return
	}
	if p.ItemsPerPage < 0 {
		writeError(w, http.StatusBadRequest, "itemsPerPage must be >= 0")
		return
	}
	saved, err := s.store.SaveUserPrefs(r.Context(), p)
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// exportData returns the full snapshot as JSON, or as a workbook when
// format=xlsx.
func (s *Server) exportData(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.ExportAllData(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}
	switch r.URL.Query().Get("format") {
	case "", "json":
		w.Header().Set("Content-Disposition", `attachment; filename="signatures-export.json"`)
		writeJSON(w, http.StatusOK, snap)
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="signatures-export.xlsx"`)
		if err := report.WriteXLSX(w, snap.Signatures, snap.Batches); err != nil {
			internalError(w, r, err)
		}
	default:
		writeError(w, http.StatusBadRequest, "format must be json or xlsx")
	}
}

func (s *Server) importData(w http.ResponseWriter, r *http.Request) {
	var snap model.Snapshot
	if !decodeBody(w, r, &snap) {
		return
	}
	res, err := s.store.ImportData(r.Context(), snap)
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) sample(w http.ResponseWriter, r *http.Request) {
	count := 10
	if v := r.URL.Query().Get("count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxSampleCount {
			writeError(w, http.StatusBadRequest, "count must be between 1 and 500")
			return
		}
		count = n
	}
	sigs, err := s.store.SampleSignatures(r.Context(), count)
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sigs)
}
