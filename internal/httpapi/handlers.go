package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"sprintcap/internal/ado"
	"sprintcap/internal/planning"
	"sprintcap/internal/snapshot"
	"sprintcap/internal/visuals"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type handler struct {
	source planning.Source
	opts   Options
	logger zerolog.Logger
}

func (h *handler) planner() *planning.Planner {
	return planning.NewPlanner(h.source, planning.WithConcurrency(h.opts.Concurrency))
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *handler) handleTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.planner().Teams(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if teams == nil {
		teams = []ado.Team{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"teams": teams})
}

func (h *handler) handleIterations(w http.ResponseWriter, r *http.Request) {
	window, err := windowFromQuery(r)
	if err != nil {
		writeValidationError(w, err)
		return
	}

	team, its, err := h.planner().Iterations(r.Context(), chi.URLParam(r, "team"), window)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	type iterationResponse struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		Path         string `json:"path"`
		Start        string `json:"start"`
		Finish       string `json:"finish"`
		TaskboardURL string `json:"taskboard_url,omitempty"`
	}
	resp := make([]iterationResponse, 0, len(its))
	for _, it := range its {
		resp = append(resp, iterationResponse{
			ID:           it.ID,
			Name:         it.Name,
			Path:         it.Path,
			Start:        it.Start.Format(planning.DateLayout),
			Finish:       it.Finish.Format(planning.DateLayout),
			TaskboardURL: ado.TaskboardURL(team, it),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"team":       team.Name,
		"iterations": resp,
	})
}

func (h *handler) handleReport(w http.ResponseWriter, r *http.Request) {
	window, err := windowFromQuery(r)
	if err != nil {
		writeValidationError(w, err)
		return
	}

	report, err := h.planner().Build(r.Context(), chi.URLParam(r, "team"), window)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "mermaid" {
		if !h.opts.EnableMermaid {
			writeError(w, http.StatusBadRequest, "CHARTS_DISABLED", "mermaid charts are disabled")
			return
		}
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(visuals.GenerateCapacityChart(report)))
		return
	}

	writeJSON(w, http.StatusOK, report.View())
}

func windowFromQuery(r *http.Request) (planning.Window, error) {
	q := r.URL.Query()
	from := strings.TrimSpace(q.Get("from"))
	to := strings.TrimSpace(q.Get("to"))
	if from == "" || to == "" {
		return planning.Window{}, errors.New("from and to query parameters are required (YYYY-MM-DD)")
	}
	return planning.ParseWindow(from, to)
}

func (h *handler) writeServiceError(w http.ResponseWriter, err error) {
	status, code := mapServiceError(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error().Err(err).Msg("service error")
	}
	writeError(w, status, code, err.Error())
}

func mapServiceError(err error) (int, string) {
	switch {
	case errors.Is(err, ado.ErrTeamNotFound), errors.Is(err, ado.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, planning.ErrInvalidWindow):
		return http.StatusBadRequest, "INVALID_WINDOW"
	case errors.Is(err, ado.ErrUnauthorized):
		return http.StatusBadGateway, "UPSTREAM_UNAUTHORIZED"
	case errors.Is(err, snapshot.ErrNotCaptured):
		return http.StatusServiceUnavailable, "NOT_CAPTURED"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "TIMEOUT"
	default:
		return http.StatusBadGateway, "UPSTREAM_ERROR"
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	})
}

func writeValidationError(w http.ResponseWriter, err error) {
	code := "VALIDATION_ERROR"
	if errors.Is(err, planning.ErrInvalidWindow) {
		code = "INVALID_WINDOW"
	}
	writeError(w, http.StatusBadRequest, code, err.Error())
}
