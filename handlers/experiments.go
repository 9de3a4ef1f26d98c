// Copyright (c) 2026 kiryuchi10.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/kiryuchi10/portfolio-experiments/cliparse"
	"github.com/kiryuchi10/portfolio-experiments/experiment"
	"github.com/kiryuchi10/portfolio-experiments/identity"
	"github.com/kiryuchi10/portfolio-experiments/middleware"
	"github.com/kiryuchi10/portfolio-experiments/models"
)

type ExperimentHandler struct {
	engine *experiment.Engine
	cfg    cliparse.Config
}

func NewExperimentHandler(engine *experiment.Engine, cfg cliparse.Config) *ExperimentHandler {
	return &ExperimentHandler{engine: engine, cfg: cfg}
}

// ListExperiments handles GET /experiments
// Returns all currently active experiments.
func (h *ExperimentHandler) ListExperiments(w http.ResponseWriter, r *http.Request) {
	experiments, err := h.engine.ListActive(r.Context())
	if err != nil {
		slog.Error("failed to list experiments", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve experiments")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ListExperimentsResponse{
		Experiments: experiments,
	})
}

// CreateExperiment handles POST /experiments
func (h *ExperimentHandler) CreateExperiment(w http.ResponseWriter, r *http.Request) {
	var req models.CreateExperimentRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	exp, err := h.engine.CreateExperiment(r.Context(), req)
	if err != nil {
		var verr *experiment.ValidationError
		if errors.As(err, &verr) {
			middleware.ErrorResponse(w, http.StatusBadRequest, verr.Reason)
			return
		}
		slog.Error("failed to create experiment", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create experiment")
		return
	}

	slog.Info("experiment created", "experiment_id", exp.ID, "name", exp.Name)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateExperimentResponse{
		ExperimentID: exp.ID,
		AdminKey:     identity.AdminKey(exp.ID, h.cfg.AdminKeySalt),
	})
}

// UpdateStatus handles PUT /experiments/{id}/status
func (h *ExperimentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	experimentID := r.PathValue("id")
	if experimentID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "experiment_id is required")
		return
	}

	// Validate admin key
	adminKey := r.Header.Get("X-Admin-Key")
	if err := identity.ValidateAdminKey(experimentID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	var req models.UpdateStatusRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Status == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "status is required")
		return
	}

	if err := h.engine.UpdateStatus(r.Context(), experimentID, req.Status); err != nil {
		var verr *experiment.ValidationError
		switch {
		case errors.As(err, &verr):
			middleware.ErrorResponse(w, http.StatusBadRequest, verr.Reason)
		case errors.Is(err, experiment.ErrNotFound):
			middleware.ErrorResponse(w, http.StatusNotFound, "Experiment not found")
		default:
			slog.Error("failed to update experiment status", "error", err, "experiment_id", experimentID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update experiment status")
		}
		return
	}

	slog.Info("experiment status updated", "experiment_id", experimentID, "status", req.Status)

	middleware.JSONResponse(w, http.StatusOK, models.UpdateStatusResponse{
		Message: "Experiment status updated to " + req.Status,
	})
}
