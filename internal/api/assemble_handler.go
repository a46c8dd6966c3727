// File path: internal/api/assemble_handler.go
package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/camline/agreementd/internal/common"
)

// handleAssemble triggers one synchronous assembly run. Concurrent triggers
// are rejected; the pipeline run itself is single-flight.
func (s *Server) handleAssemble(w http.ResponseWriter, r *http.Request) {
	s.runMu.Lock()
	if s.running {
		s.runMu.Unlock()
		writeError(w, http.StatusConflict, ErrRunInProgress)
		return
	}
	s.running = true
	s.runMu.Unlock()
	defer func() {
		s.runMu.Lock()
		s.running = false
		s.runMu.Unlock()
	}()

	logger := common.Logger()
	logger.Info("api: assembly run triggered", "remote", r.RemoteAddr)
	result, err := s.runner.Run(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.catalog == nil {
		http.NotFound(w, r)
		return
	}
	limit := 20
	if value := strings.TrimSpace(r.URL.Query().Get("limit")); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil && parsed > 0 {
			limit = parsed
		}
	}
	runs, err := s.catalog.RecentRuns(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"runs": runs})
}

func (s *Server) handleAgreements(w http.ResponseWriter, r *http.Request) {
	if s.catalog == nil {
		http.NotFound(w, r)
		return
	}
	runID := strings.TrimSpace(r.URL.Query().Get("run_id"))
	agreements, err := s.catalog.Agreements(r.Context(), runID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"agreements": agreements})
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	defs, err := s.runner.Templates(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	type templateInfo struct {
		TemplateID   string `json:"template_id"`
		TemplateName string `json:"template_name"`
	}
	infos := make([]templateInfo, 0, len(defs))
	for _, def := range defs {
		infos = append(infos, templateInfo{TemplateID: def.ID, TemplateName: def.Name})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"templates": infos})
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"logs": common.LogEntries()})
}
