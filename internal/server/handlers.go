package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/shroud-io/shroud/internal/entity"
	"github.com/shroud-io/shroud/internal/redact"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: message}})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.startTime).String(),
	}
	if r.URL.Query().Get("detail") == "true" {
		components := map[string]string{"engine": "ok"}
		if s.auditStore == nil {
			components["audit_store"] = "disabled"
		} else {
			components["audit_store"] = "ok"
		}
		resp["components"] = components
	}
	writeJSON(w, http.StatusOK, resp)
}

type analyzeRequest struct {
	Text string `json:"text"`
}

type analyzeResponse struct {
	Matches    entity.MatchSet `json:"matches"`
	Summary    redact.Summary  `json:"summary"`
	TextLength int             `json:"text_length"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	body := http.MaxBytesReader(w, r.Body, s.maxTextBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON: "+err.Error())
		return
	}

	matches, err := s.engine.Analyze(r.Context(), req.Text)
	if err != nil {
		log.Error().Err(err).Msg("analyze_error")
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	summary := s.engine.Summarize(matches)
	s.recordAudit(r, "analyze", req.Text, summary)

	writeJSON(w, http.StatusOK, analyzeResponse{
		Matches:    matches,
		Summary:    summary,
		TextLength: utf8.RuneCountInString(req.Text),
	})
}

type redactRequest struct {
	Text     string `json:"text"`
	FillChar string `json:"fill_char,omitempty"`
}

type redactResponse struct {
	RedactedText string          `json:"redacted_text"`
	Matches      entity.MatchSet `json:"matches"`
	Summary      redact.Summary  `json:"summary"`
}

func (s *Server) handleRedact(w http.ResponseWriter, r *http.Request) {
	var req redactRequest
	body := http.MaxBytesReader(w, r.Body, s.maxTextBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON: "+err.Error())
		return
	}

	fill := s.defaultFill
	if req.FillChar != "" {
		if utf8.RuneCountInString(req.FillChar) != 1 {
			writeError(w, http.StatusBadRequest, "invalid_request", "fill_char must be exactly one character")
			return
		}
		fill, _ = utf8.DecodeRuneInString(req.FillChar)
	}

	redacted, matches, err := s.engine.Redact(r.Context(), req.Text, fill)
	if err != nil {
		if errors.Is(err, entity.ErrInvalidRange) {
			log.Error().Err(err).Msg("redact_invalid_match")
		} else {
			log.Error().Err(err).Msg("redact_error")
		}
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	summary := s.engine.Summarize(matches)
	s.recordAudit(r, "redact", req.Text, summary)

	writeJSON(w, http.StatusOK, redactResponse{
		RedactedText: redacted,
		Matches:      matches,
		Summary:      summary,
	})
}

func (s *Server) handleAuditList(w http.ResponseWriter, r *http.Request) {
	if s.auditStore == nil {
		writeError(w, http.StatusNotFound, "audit_disabled", "audit store is not configured")
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_request", "limit must be a positive integer")
			return
		}
		limit = n
	}

	records, err := s.auditStore.List(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("audit_list_error")
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"records": records})
}

// recordAudit appends an audit record when a store is configured. Audit
// failures are logged, never surfaced: the run itself succeeded.
func (s *Server) recordAudit(r *http.Request, operation, text string, summary redact.Summary) {
	if s.auditStore == nil {
		return
	}
	if _, err := s.auditStore.Append(r.Context(), operation, utf8.RuneCountInString(text), summary); err != nil {
		log.Warn().Err(err).Str("operation", operation).Msg("audit_append_failed")
	}
}
