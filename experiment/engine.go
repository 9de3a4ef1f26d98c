// Copyright (c) 2026 kiryuchi10.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kiryuchi10/portfolio-experiments/models"
)

// Engine implements experiment lifecycle management, variant assignment,
// conversion tracking, health monitoring, and reporting over a Store.
// It is stateless and safe for concurrent use.
type Engine struct {
	store Store
	now   func() time.Time
}

func New(store Store) *Engine {
	return &Engine{store: store, now: time.Now}
}

// CreateExperiment validates the definition and persists it in draft status.
// Returns a ValidationError when the definition is malformed.
func (e *Engine) CreateExperiment(ctx context.Context, req models.CreateExperimentRequest) (*models.Experiment, error) {
	if req.Name == "" {
		return nil, validationErrorf("name is required")
	}
	if len(req.Variants) == 0 {
		return nil, validationErrorf("variants are required")
	}
	if len(req.TrafficSplit) == 0 {
		return nil, validationErrorf("traffic_split is required")
	}

	seen := make(map[string]bool, len(req.Variants))
	for _, v := range req.Variants {
		if v == "" {
			return nil, validationErrorf("variant names must be non-empty")
		}
		if seen[v] {
			return nil, validationErrorf("duplicate variant name: %s", v)
		}
		seen[v] = true
	}

	total := 0
	for _, pct := range req.TrafficSplit {
		total += pct
	}
	if total != 100 {
		return nil, validationErrorf("traffic split must add up to 100%%")
	}

	if len(req.TrafficSplit) != len(req.Variants) {
		return nil, validationErrorf("variants must match traffic split keys")
	}
	for _, v := range req.Variants {
		if _, ok := req.TrafficSplit[v]; !ok {
			return nil, validationErrorf("variants must match traffic split keys")
		}
	}

	now := e.now()
	exp := &models.Experiment{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Description:  req.Description,
		Variants:     req.Variants,
		TrafficSplit: req.TrafficSplit,
		Status:       models.StatusDraft,
		CreatedAt:    now,
		UpdatedAt:    now,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
	}

	if err := e.store.CreateExperiment(ctx, exp); err != nil {
		return nil, fmt.Errorf("persist experiment: %w", err)
	}

	return exp, nil
}

// GetExperiment returns a single experiment by ID.
func (e *Engine) GetExperiment(ctx context.Context, id string) (*models.Experiment, error) {
	return e.store.GetExperiment(ctx, id)
}

// ListActive returns all experiments currently accepting assignments.
func (e *Engine) ListActive(ctx context.Context) ([]models.Experiment, error) {
	return e.store.ListExperimentsByStatus(ctx, models.StatusActive)
}

// validTransitions is the experiment lifecycle: draft -> active -> paused
// -> active ... with completed reachable from any non-completed state and
// terminal once entered.
var validTransitions = map[string][]string{
	models.StatusDraft:     {models.StatusActive, models.StatusCompleted},
	models.StatusActive:    {models.StatusPaused, models.StatusCompleted},
	models.StatusPaused:    {models.StatusActive, models.StatusCompleted},
	models.StatusCompleted: {},
}

// UpdateStatus transitions an experiment through its lifecycle. Invalid
// status values and disallowed transitions are ValidationErrors; an unknown
// experiment is ErrNotFound.
func (e *Engine) UpdateStatus(ctx context.Context, id, status string) error {
	if _, ok := validTransitions[status]; !ok {
		return validationErrorf("invalid status: must be one of draft, active, paused, completed")
	}

	exp, err := e.store.GetExperiment(ctx, id)
	if err != nil {
		return err
	}

	permitted := false
	for _, next := range validTransitions[exp.Status] {
		if next == status {
			permitted = true
			break
		}
	}
	if !permitted {
		return validationErrorf("cannot transition from %s to %s", exp.Status, status)
	}

	return e.store.UpdateExperimentStatus(ctx, id, status, e.now())
}
