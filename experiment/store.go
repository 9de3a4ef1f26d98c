// Copyright (c) 2026 kiryuchi10.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package experiment

import (
	"context"
	"time"

	"github.com/kiryuchi10/portfolio-experiments/models"
)

// Store is the persistence boundary of the engine. The engine never caches
// rows across calls; every operation re-reads current state through this
// interface, so configuration changes take effect immediately.
//
// Lookup methods return ErrNotFound when the requested row is absent.
// InsertAssignment must surface the store's (experiment_id, user_id)
// uniqueness violation as a plain error; the engine resolves the race by
// re-reading (see Assign).
type Store interface {
	CreateExperiment(ctx context.Context, exp *models.Experiment) error
	GetExperiment(ctx context.Context, id string) (*models.Experiment, error)
	ListExperimentsByStatus(ctx context.Context, status string) ([]models.Experiment, error)
	UpdateExperimentStatus(ctx context.Context, id, status string, updatedAt time.Time) error

	GetAssignment(ctx context.Context, experimentID, userID string) (*models.Assignment, error)
	InsertAssignment(ctx context.Context, a *models.Assignment) error
	AssignmentCounts(ctx context.Context, experimentID string) (map[string]int, error)
	AssignmentActivity(ctx context.Context, experimentID string) (map[string]models.AssignmentStats, error)

	InsertConversion(ctx context.Context, c *models.Conversion) error
	ConversionAggregates(ctx context.Context, experimentID string) (map[string]models.ConversionAggregate, error)
	ConversionActivity(ctx context.Context, experimentID string) (map[string]models.ConversionStats, error)
}
