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

type TrackingHandler struct {
	engine *experiment.Engine
	cfg    cliparse.Config
}

func NewTrackingHandler(engine *experiment.Engine, cfg cliparse.Config) *TrackingHandler {
	return &TrackingHandler{engine: engine, cfg: cfg}
}

// caller derives the anonymous identity for a request: a stable user ID
// from IP plus User-Agent, and a salted IP hash for persistence. The raw
// IP never reaches storage.
func (h *TrackingHandler) caller(r *http.Request) (userID, ipHash string) {
	ip := middleware.GetClientIP(r)
	return identity.CallerID(ip, r.UserAgent()), identity.HashIP(ip, h.cfg.IdentitySalt)
}

// Assign handles POST /experiments/{id}/assign
// Buckets the caller into a variant, or returns the existing assignment.
func (h *TrackingHandler) Assign(w http.ResponseWriter, r *http.Request) {
	experimentID := r.PathValue("id")
	if experimentID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "experiment_id is required")
		return
	}

	userID, ipHash := h.caller(r)

	variant, existing, err := h.engine.Assign(r.Context(), experimentID, userID, ipHash)
	if err != nil {
		if errors.Is(err, experiment.ErrNotFound) {
			middleware.ErrorResponse(w, http.StatusNotFound, "Experiment not found or not active")
			return
		}
		slog.Error("failed to assign variant", "error", err, "experiment_id", experimentID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to assign variant")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.AssignResponse{
		Variant:            variant,
		UserID:             userID,
		ExistingAssignment: existing,
	})
}

// TrackConversion handles POST /conversions
func (h *TrackingHandler) TrackConversion(w http.ResponseWriter, r *http.Request) {
	var req models.TrackConversionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.ExperimentID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "experiment_id is required")
		return
	}

	value := 1.0
	if req.ConversionValue != nil {
		value = *req.ConversionValue
	}

	userID, ipHash := h.caller(r)

	variant, err := h.engine.Track(r.Context(), req.ExperimentID, userID, req.ConversionType, value, ipHash)
	if err != nil {
		switch {
		case errors.Is(err, experiment.ErrNotAssigned):
			middleware.ErrorResponse(w, http.StatusBadRequest, "User not assigned to this experiment")
		case errors.Is(err, experiment.ErrNotFound):
			middleware.ErrorResponse(w, http.StatusNotFound, "Experiment not found")
		default:
			slog.Error("failed to track conversion", "error", err, "experiment_id", req.ExperimentID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to track conversion")
		}
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.TrackConversionResponse{
		Variant: variant,
		Message: "Conversion tracked",
	})
}
