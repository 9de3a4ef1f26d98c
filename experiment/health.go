// Copyright (c) 2026 kiryuchi10.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package experiment

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/kiryuchi10/portfolio-experiments/models"
)

// minAssignmentsForHealth is the floor below which distribution health is
// reported as insufficient_data rather than scored.
const minAssignmentsForHealth = 100

// Health compares the observed traffic distribution against the
// experiment's configured split and scores how closely they match.
func (e *Engine) Health(ctx context.Context, experimentID string) (*models.HealthMetrics, error) {
	exp, err := e.store.GetExperiment(ctx, experimentID)
	if err != nil {
		return nil, err
	}

	assignmentData, err := e.store.AssignmentActivity(ctx, experimentID)
	if err != nil {
		return nil, fmt.Errorf("aggregate assignments: %w", err)
	}

	totalAssignments := 0
	for _, stats := range assignmentData {
		totalAssignments += stats.Count
	}

	trafficHealth := make(map[string]models.VariantTraffic, len(exp.TrafficSplit))
	for variant, expectedPercent := range exp.TrafficSplit {
		actualCount := assignmentData[variant].Count

		actualPercent := 0.0
		if totalAssignments > 0 {
			actualPercent = float64(actualCount) / float64(totalAssignments) * 100
		}
		expectedCount := float64(totalAssignments) * float64(expectedPercent) / 100

		chiSquareContrib := 0.0
		if expectedCount > 0 {
			diff := float64(actualCount) - expectedCount
			chiSquareContrib = diff * diff / expectedCount
		}

		trafficHealth[variant] = models.VariantTraffic{
			ExpectedPercent:  expectedPercent,
			ActualPercent:    roundTo(actualPercent, 2),
			Deviation:        roundTo(actualPercent-float64(expectedPercent), 2),
			ChiSquareContrib: roundTo(chiSquareContrib, 4),
		}
	}

	conversionData, err := e.store.ConversionActivity(ctx, experimentID)
	if err != nil {
		return nil, fmt.Errorf("aggregate conversions: %w", err)
	}

	runtimeDays := int(e.now().Sub(exp.CreatedAt).Hours() / 24)

	return &models.HealthMetrics{
		ExperimentName:   exp.Name,
		RuntimeDays:      runtimeDays,
		TotalAssignments: totalAssignments,
		TrafficHealth:    trafficHealth,
		AssignmentData:   assignmentData,
		ConversionData:   conversionData,
		HealthScore:      healthScore(trafficHealth, totalAssignments),
	}, nil
}

// healthScore buckets the average absolute deviation from the configured
// split into a qualitative rating.
func healthScore(trafficHealth map[string]models.VariantTraffic, totalAssignments int) models.HealthScore {
	if totalAssignments < minAssignmentsForHealth {
		return models.HealthScore{
			Score:   models.HealthInsufficientData,
			Message: "Not enough data to calculate health score",
		}
	}

	avgDeviation := 0.0
	if len(trafficHealth) > 0 {
		sum := 0.0
		for _, variant := range trafficHealth {
			sum += math.Abs(variant.Deviation)
		}
		avgDeviation = sum / float64(len(trafficHealth))
	}
	avgDeviation = roundTo(avgDeviation, 2)

	var score, message string
	switch {
	case avgDeviation < 2:
		score = models.HealthExcellent
		message = "Traffic distribution is very close to expected"
	case avgDeviation < 5:
		score = models.HealthGood
		message = "Traffic distribution is acceptable"
	case avgDeviation < 10:
		score = models.HealthFair
		message = "Traffic distribution has some deviation"
	default:
		score = models.HealthPoor
		message = "Traffic distribution significantly deviates from expected"
	}

	return models.HealthScore{
		Score:        score,
		Message:      message,
		AvgDeviation: &avgDeviation,
	}
}

// sortedKeys returns map keys in lexicographic order for deterministic
// iteration.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// roundTo rounds half away from zero to the given number of decimal places.
func roundTo(x float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Round(x*shift) / shift
}
