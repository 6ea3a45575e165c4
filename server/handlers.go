package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"property-analytics/analytics"
	"property-analytics/models"
	"property-analytics/services"
)

type errorResponse struct {
	Error string `json:"error"`
}

type analyticsResponse struct {
	Summary models.Summary    `json:"summary"`
	Report  *analytics.Report `json:"report"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleProperties handles GET /api/properties.
func (s *Server) handleProperties(w http.ResponseWriter, r *http.Request) {
	resp, err := s.properties.Get(r.Context(), r.URL.Query().Get("search_url_origin"))
	if err != nil {
		s.handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleAnalytics handles GET /api/analytics. View parameters missing from
// the query fall back to the configured defaults.
func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params, err := parseViewParams(q, s.cfg.View)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := s.properties.Get(r.Context(), q.Get("search_url_origin"))
	if err != nil {
		s.handleServiceError(w, err)
		return
	}

	report, err := analytics.Run(resp.Properties, params)
	if err != nil {
		analyticsRunsTotal.WithLabelValues("error").Inc()
		if isInvalidView(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("[server] Analytics run failed: %v", err)
		writeError(w, http.StatusInternalServerError, "analytics failed")
		return
	}
	analyticsRunsTotal.WithLabelValues("ok").Inc()

	writeJSON(w, http.StatusOK, analyticsResponse{Summary: resp.Summary, Report: report})
}

func (s *Server) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrMissingOrigin):
		writeError(w, http.StatusBadRequest, "search_url_origin parameter is required")
	case errors.Is(err, services.ErrNoProperties):
		writeError(w, http.StatusNotFound, "No properties found for the given URL")
	case errors.Is(err, services.ErrScrapeFailed):
		s.logger.Warn("[server] %v", err)
		writeError(w, http.StatusBadGateway, "failed to scrape the given URL")
	default:
		s.logger.Error("[server] Request failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// isInvalidView reports whether err comes from view parameters the data
// cannot satisfy, such as a bin size too small for the stored prices.
func isInvalidView(err error) bool {
	for _, target := range []error{
		analytics.ErrInvalidBinSize,
		analytics.ErrInvalidRange,
		analytics.ErrInvalidSortKey,
		analytics.ErrInvalidDirection,
		analytics.ErrInvalidLimit,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// writeJSON encodes v before touching the response so an encoding failure
// still yields a 500 with a body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Error: "failed to encode response"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
