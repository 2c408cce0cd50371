package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/richard-senior/canodds/internal/logger"
	"github.com/richard-senior/canodds/pkg/tools"
	"github.com/richard-senior/canodds/pkg/util/canodds"
)

// APIHandler serves predictions and the supporting tables over HTTP
type APIHandler struct {
	tools *tools.PredictionTools
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(pt *tools.PredictionTools) *APIHandler {
	return &APIHandler{tools: pt}
}

// SetupRoutes configures the HTTP routes
func (h *APIHandler) SetupRoutes() *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/predict", h.handlePredict).Methods("POST")
	api.HandleFunc("/groups", h.handleGroups).Methods("GET")
	api.HandleFunc("/team_stats", h.handleTeamStats).Methods("GET")
	api.HandleFunc("/team_stats/{team}", h.handleTeamStatistics).Methods("GET")
	api.HandleFunc("/health", h.handleHealth).Methods("GET")

	r.Use(loggingMiddleware)
	return r
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Info(r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to encode response:", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// handlePredict accepts a JSON body or form fields with home_team, away_team and is_group
func (h *APIHandler) handlePredict(w http.ResponseWriter, r *http.Request) {
	params := map[string]any{}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid form")
			return
		}
		for _, key := range []string{"home_team", "away_team", "is_group"} {
			if v := r.PostForm.Get(key); v != "" {
				params[key] = v
			}
		}
	}

	req, err := tools.ParseMatchRequest(params)
	if err != nil {
		if errors.Is(err, tools.ErrMissingTeams) {
			writeError(w, http.StatusBadRequest, "missing teams")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := h.tools.Predictor().Predict(req.HomeTeam, req.AwayTeam, req.IsGroupStage)
	writeJSON(w, http.StatusOK, result)
}

func (h *APIHandler) handleGroups(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, canodds.GroupsCopy())
}

func (h *APIHandler) handleTeamStats(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}
	writeJSON(w, http.StatusOK, h.tools.StatsRows(limit))
}

func (h *APIHandler) handleTeamStatistics(w http.ResponseWriter, r *http.Request) {
	team := mux.Vars(r)["team"]
	writeJSON(w, http.StatusOK, h.tools.TeamStatistics(team))
}

func (h *APIHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"model_loaded": h.tools.Predictor().Ready(),
		"stats_rows":   h.tools.Predictor().Stats().Len(),
	})
}
