// Copyright (c) 2026 kiryuchi10.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/kiryuchi10/portfolio-experiments/experiment"
	"github.com/kiryuchi10/portfolio-experiments/middleware"
	"github.com/kiryuchi10/portfolio-experiments/models"
	"github.com/kiryuchi10/portfolio-experiments/stats"
)

// Defaults for sample-size calculations when the request omits them.
const (
	defaultPower             = 0.8
	defaultSignificanceLevel = 0.05
)

type ResultsHandler struct {
	engine *experiment.Engine
}

func NewResultsHandler(engine *experiment.Engine) *ResultsHandler {
	return &ResultsHandler{engine: engine}
}

// GetResults handles GET /experiments/{id}/results
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	experimentID := r.PathValue("id")
	if experimentID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "experiment_id is required")
		return
	}

	results, err := h.engine.Results(r.Context(), experimentID)
	if err != nil {
		if errors.Is(err, experiment.ErrNotFound) {
			middleware.ErrorResponse(w, http.StatusNotFound, "Experiment not found")
			return
		}
		slog.Error("failed to build results", "error", err, "experiment_id", experimentID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve results")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, results)
}

// GetReport handles GET /experiments/{id}/report
// Returns results plus significance analysis, health metrics, and
// recommendations in one document.
func (h *ResultsHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	experimentID := r.PathValue("id")
	if experimentID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "experiment_id is required")
		return
	}

	report, err := h.engine.Report(r.Context(), experimentID)
	if err != nil {
		if errors.Is(err, experiment.ErrNotFound) {
			middleware.ErrorResponse(w, http.StatusNotFound, "Experiment not found")
			return
		}
		slog.Error("failed to build report", "error", err, "experiment_id", experimentID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to generate report")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, report)
}

// GetHealth handles GET /experiments/{id}/health
func (h *ResultsHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	experimentID := r.PathValue("id")
	if experimentID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "experiment_id is required")
		return
	}

	health, err := h.engine.Health(r.Context(), experimentID)
	if err != nil {
		if errors.Is(err, experiment.ErrNotFound) {
			middleware.ErrorResponse(w, http.StatusNotFound, "Experiment not found")
			return
		}
		slog.Error("failed to compute health", "error", err, "experiment_id", experimentID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to compute experiment health")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, health)
}

// SampleSize handles POST /stats/sample-size
// A pure calculation endpoint; nothing is read from or written to storage.
func (h *ResultsHandler) SampleSize(w http.ResponseWriter, r *http.Request) {
	var req models.SampleSizeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	power := defaultPower
	if req.Power != nil {
		power = *req.Power
	}
	significance := defaultSignificanceLevel
	if req.SignificanceLevel != nil {
		significance = *req.SignificanceLevel
	}

	size, err := stats.SampleSize(req.BaselineRate, req.MinimumDetectableEffect, power, significance)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SampleSizeResponse{
		SampleSizePerVariant:    size,
		BaselineRate:            req.BaselineRate,
		MinimumDetectableEffect: req.MinimumDetectableEffect,
		Power:                   power,
		SignificanceLevel:       significance,
	})
}
