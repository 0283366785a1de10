package api

import (
	"errors"
	"net/http"

	"github.com/dgallion1/lawgest/internal/lawdoc"
	"github.com/dgallion1/lawgest/internal/output"
	"github.com/go-chi/chi/v5"
)

// handleListLaws summarizes every artifact in the output directory.
func (s *Server) handleListLaws(w http.ResponseWriter, r *http.Request) {
	laws, err := output.List(s.cfg.OutputDir)
	if err != nil {
		jsonError(w, "failed to list laws: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"laws": laws})
}

// handleGetLaw returns the record array of one artifact, as written.
func (s *Server) handleGetLaw(w http.ResponseWriter, r *http.Request) {
	records, err := output.Read(s.cfg.OutputDir, chi.URLParam(r, "slug"))
	if errors.Is(err, output.ErrNotFound) {
		jsonError(w, "law not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "failed to read law: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeRecords(w, records)
}

func writeRecords(w http.ResponseWriter, records []lawdoc.Record) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	output.Encode(w, records)
}
