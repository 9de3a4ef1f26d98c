// Copyright (c) 2026 kiryuchi10.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package experiment

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/kiryuchi10/portfolio-experiments/identity"
	"github.com/kiryuchi10/portfolio-experiments/models"
)

// PickVariant deterministically buckets a caller into one of the
// experiment's variants. The caller's bucket in [1,100] is walked against
// cumulative traffic-split percentages in lexicographic variant order, so
// every implementation visits variants identically regardless of map
// iteration order. The fallback is unreachable while splits sum to 100.
func PickVariant(experimentID, userID string, trafficSplit map[string]int) string {
	bucket := identity.Bucket(experimentID, userID)

	names := make([]string, 0, len(trafficSplit))
	for name := range trafficSplit {
		names = append(names, name)
	}
	sort.Strings(names)

	cumulative := 0
	for _, name := range names {
		cumulative += trafficSplit[name]
		if bucket <= cumulative {
			return name
		}
	}

	return models.ControlVariant
}

// Assign buckets a caller into a variant, persisting the assignment on
// first contact. Repeated calls return the persisted variant unchanged,
// even after the experiment is paused or completed; only new assignments
// require active status (ErrNotFound otherwise).
//
// Two concurrent first requests from the same caller may both reach the
// insert; the store's uniqueness constraint rejects one, and the loser
// re-reads and returns the row the winner wrote. The (experiment, caller)
// pair therefore gets exactly one assignment without any locking here.
func (e *Engine) Assign(ctx context.Context, experimentID, userID, ipHash string) (variant string, existing bool, err error) {
	a, err := e.store.GetAssignment(ctx, experimentID, userID)
	if err == nil {
		return a.Variant, true, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return "", false, fmt.Errorf("look up assignment: %w", err)
	}

	exp, err := e.store.GetExperiment(ctx, experimentID)
	if err != nil {
		return "", false, err
	}
	if exp.Status != models.StatusActive {
		return "", false, ErrNotFound
	}

	variant = PickVariant(experimentID, userID, exp.TrafficSplit)

	id, err := identity.GenerateID(16)
	if err != nil {
		return "", false, err
	}

	assignment := &models.Assignment{
		ID:           id,
		ExperimentID: experimentID,
		UserID:       userID,
		Variant:      variant,
		AssignedAt:   e.now(),
		IPAddress:    ipHash,
	}

	if insertErr := e.store.InsertAssignment(ctx, assignment); insertErr != nil {
		// Likely lost a first-assignment race; the unique constraint
		// guarantees a row now exists if so.
		if a, err := e.store.GetAssignment(ctx, experimentID, userID); err == nil {
			return a.Variant, true, nil
		}
		return "", false, fmt.Errorf("persist assignment: %w", insertErr)
	}

	return variant, false, nil
}

// Track appends a conversion event for an already-assigned caller. The
// variant is copied from the persisted assignment, never re-derived, so a
// later traffic-split change cannot corrupt historical analysis. Events are
// never deduplicated.
func (e *Engine) Track(ctx context.Context, experimentID, userID, conversionType string, conversionValue float64, ipHash string) (string, error) {
	a, err := e.store.GetAssignment(ctx, experimentID, userID)
	if errors.Is(err, ErrNotFound) {
		return "", ErrNotAssigned
	}
	if err != nil {
		return "", fmt.Errorf("look up assignment: %w", err)
	}

	if conversionType == "" {
		conversionType = models.DefaultConversionType
	}

	id, err := identity.GenerateID(16)
	if err != nil {
		return "", err
	}

	conversion := &models.Conversion{
		ID:              id,
		ExperimentID:    experimentID,
		UserID:          userID,
		Variant:         a.Variant,
		ConversionType:  conversionType,
		ConversionValue: conversionValue,
		ConvertedAt:     e.now(),
		IPAddress:       ipHash,
	}

	if err := e.store.InsertConversion(ctx, conversion); err != nil {
		return "", fmt.Errorf("persist conversion: %w", err)
	}

	return a.Variant, nil
}
