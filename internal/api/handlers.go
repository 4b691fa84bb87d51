package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"gocpd/app"
	"gocpd/domain/core"
	"gocpd/domain/cost"
	"gocpd/domain/search"
	"gocpd/internal/errors"
	"gocpd/ports"

	"github.com/go-chi/chi/v5"
)

type resolveRequest struct {
	Model  string    `json:"model"`
	Series []float64 `json:"series,omitempty"`
}

type resolveResponse struct {
	Kind         cost.Kind          `json:"kind"`
	FixedParams  map[string]float64 `json:"fixed_params,omitempty"`
	Description  string             `json:"description"`
	SeriesLength int                `json:"series_length"`
}

type planRequest struct {
	Model     string    `json:"model"`
	Series    []float64 `json:"series"`
	Penalties []float64 `json:"penalties,omitempty"`
	Algorithm string    `json:"algorithm,omitempty"`
}

// handleHealth reports liveness
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleResolve maps a model expression to its cost descriptor without
// planning a run
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, errors.New(errors.CodeBadRequest, "invalid JSON body"))
		return
	}

	desc, err := cost.ResolveExpression(req.Model, req.Series)
	if err != nil {
		s.respondError(w, errors.FromDomain(err))
		return
	}

	s.respondJSON(w, http.StatusOK, resolveResponse{
		Kind:         desc.Kind,
		FixedParams:  desc.FixedParams,
		Description:  desc.Describe(),
		SeriesLength: desc.Length(),
	})
}

// handlePlan resolves, validates and persists a detection run
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, errors.New(errors.CodeBadRequest, "invalid JSON body"))
		return
	}

	var algorithm search.Algorithm
	if req.Algorithm != "" {
		parsed, err := search.ParseAlgorithm(req.Algorithm)
		if err != nil {
			s.respondError(w, errors.FromDomain(err))
			return
		}
		algorithm = parsed
	}

	result, err := s.planner.Plan(r.Context(), app.PlanRequest{
		ModelExpr: req.Model,
		Series:    req.Series,
		Penalties: req.Penalties,
		Algorithm: algorithm,
	})
	if err != nil {
		s.respondError(w, errors.FromDomain(err))
		return
	}

	s.respondJSON(w, http.StatusOK, result)
}

// handleFamilies lists the model grammar: families, arities and marker
// patterns with the descriptor kinds they select
func (s *Server) handleFamilies(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"families": cost.Families(),
	})
}

// handleListRuns returns stored runs, newest first
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	filters, err := parseRunFilters(r)
	if err != nil {
		s.respondError(w, errors.FromDomain(err))
		return
	}

	runs, err := s.repository.ListRuns(r.Context(), filters)
	if err != nil {
		s.respondError(w, errors.FromDomain(err))
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"runs":  runs,
		"count": len(runs),
	})
}

// parseRunFilters reads list filters from the query string
func parseRunFilters(r *http.Request) (ports.RunFilters, error) {
	filters := ports.RunFilters{Limit: 50}
	query := r.URL.Query()

	if v := query.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return filters, errors.New(errors.CodeBadRequest, "limit must be a positive integer")
		}
		filters.Limit = n
	}
	if v := query.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return filters, errors.New(errors.CodeBadRequest, "offset must be a non-negative integer")
		}
		filters.Offset = n
	}
	if v := query.Get("algorithm"); v != "" {
		algorithm, err := search.ParseAlgorithm(v)
		if err != nil {
			return filters, err
		}
		filters.Algorithm = &algorithm
	}
	if v := query.Get("kind"); v != "" {
		kind := cost.Kind(v)
		filters.CostKind = &kind
	}

	return filters, nil
}

// handleGetRun returns one stored run by ID
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	runID, err := core.ParseRunID(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, errors.New(errors.CodeBadRequest, "invalid run id"))
		return
	}

	detection, err := s.repository.GetRun(r.Context(), runID)
	if err != nil {
		s.respondError(w, errors.FromDomain(err))
		return
	}

	s.respondJSON(w, http.StatusOK, detection)
}
