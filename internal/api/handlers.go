package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"macrolens/app"
	"macrolens/domain/core"
	"macrolens/domain/macro"
	"macrolens/internal/views"

	"github.com/go-chi/chi/v5"
)

// Handler serves the session API
type Handler struct {
	svc *app.DashboardService
}

// NewHandler creates a handler over svc
func NewHandler(svc *app.DashboardService) *Handler {
	return &Handler{svc: svc}
}

type scopeRequest struct {
	StartYear  int      `json:"start_year"`
	EndYear    int      `json:"end_year"`
	Continents []string `json:"continents"`
}

func (s scopeRequest) toScope() macro.Scope {
	scope := macro.Scope{StartYear: s.StartYear, EndYear: s.EndYear}
	for _, c := range s.Continents {
		scope.Continents = append(scope.Continents, macro.Continent(c))
	}
	return scope
}

func sessionID(r *http.Request) (core.SessionID, error) {
	id, err := core.ParseSessionID(chi.URLParam(r, "id"))
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrSessionNotFound, err)
	}
	return id, nil
}

func queryInt(r *http.Request, key string) (*int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, core.NewValidationError(key, fmt.Sprintf("%q is not an integer", raw))
	}
	return &n, nil
}

// HealthCheck reports liveness
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CreateSession starts a session; an empty body takes the default scope
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req *scopeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	var scope *macro.Scope
	if req != nil {
		sc := req.toScope()
		scope = &sc
	}
	st, err := h.svc.CreateSession(r.Context(), scope)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, app.Summarize(st))
}

// GetSession returns the session summary
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	st, err := h.svc.Session(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app.Summarize(st))
}

// ApplyScope replaces the session filter
func (h *Handler) ApplyScope(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req scopeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	st, err := h.svc.ApplyScope(r.Context(), id, req.toScope())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app.Summarize(st))
}

// RunClustering runs k-means for the session
func (h *Handler) RunClustering(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req app.ClusterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	st, err := h.svc.RunClustering(r.Context(), id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app.Summarize(st))
}

// InertiaCurve returns inertia for k = 1..max_k over the session's
// clustering indicators
func (h *Handler) InertiaCurve(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	maxK, err := queryInt(r, "max_k")
	if err != nil {
		writeError(w, err)
		return
	}
	year, err := queryInt(r, "year")
	if err != nil {
		writeError(w, err)
		return
	}

	limit := macro.MaxClusters
	if maxK != nil {
		limit = *maxK
	}
	req := app.ClusterRequest{Indicators: r.URL.Query()["indicator"]}
	if year != nil {
		req.Year = *year
	}
	points, err := h.svc.InertiaCurve(r.Context(), id, req, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"points": points})
}

// Options lists the selectable values of the session
func (h *Handler) Options(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	lists, err := h.svc.Options(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lists)
}

// RaceChart returns the bar race table; start and end zoom the year range
func (h *Handler) RaceChart(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	start, err := queryInt(r, "start")
	if err != nil {
		writeError(w, err)
		return
	}
	end, err := queryInt(r, "end")
	if err != nil {
		writeError(w, err)
		return
	}

	var window *views.YearWindow
	if start != nil && end != nil {
		window = &views.YearWindow{Start: *start, End: *end}
	} else if start != nil || end != nil {
		writeError(w, core.NewValidationError("window", "needs both start and end"))
		return
	}

	table, err := h.svc.RaceChart(id, r.URL.Query().Get("indicator"), window)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, table)
}

// ClusterMap returns the choropleth table of the active run
func (h *Handler) ClusterMap(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	table, err := h.svc.ClusterMap(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, table)
}

// Explore returns one group's table for an indicator
func (h *Handler) Explore(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	year, err := queryInt(r, "year")
	if err != nil {
		writeError(w, err)
		return
	}
	q := r.URL.Query()
	table, err := h.svc.Explore(id, q.Get("group"), q.Get("indicator"), year)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, table)
}

// Profile returns per-indicator distribution summaries
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	year, err := queryInt(r, "year")
	if err != nil {
		writeError(w, err)
		return
	}
	profiles, err := h.svc.Profile(id, year)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profiles)
}

// Peers resolves a peer set with its series and map tables
func (h *Handler) Peers(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req app.PeerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	res, err := h.svc.Peers(id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Export streams the cluster workbook
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := h.svc.Export(id, &buf); err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="cluster_analysis_export.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}
