// Copyright (c) 2026 kiryuchi10.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package experiment

import (
	"context"
	"fmt"

	"github.com/kiryuchi10/portfolio-experiments/models"
	"github.com/kiryuchi10/portfolio-experiments/stats"
)

// reportConfidenceLevel is the confidence used for per-variant significance
// tests inside reports.
const reportConfidenceLevel = 0.95

// Results returns per-variant assignment/conversion aggregates for an
// experiment, without statistical analysis.
func (e *Engine) Results(ctx context.Context, experimentID string) (*models.ResultsResponse, error) {
	exp, err := e.store.GetExperiment(ctx, experimentID)
	if err != nil {
		return nil, err
	}

	results, err := e.detailedResults(ctx, experimentID)
	if err != nil {
		return nil, err
	}

	totalAssignments := 0
	totalConversions := 0
	for _, r := range results {
		totalAssignments += r.Assignments
		totalConversions += r.Conversions
	}

	return &models.ResultsResponse{
		ExperimentID:     experimentID,
		ExperimentName:   exp.Name,
		Results:          results,
		TotalAssignments: totalAssignments,
		TotalConversions: totalConversions,
	}, nil
}

// Report builds the full experiment report: per-variant results, per-variant
// significance against the control, distribution health, and a list of
// recommendation strings. A degenerate significance comparison (e.g. an
// empty variant) is carried inside its Result rather than failing the whole
// report.
func (e *Engine) Report(ctx context.Context, experimentID string) (*models.ExperimentReport, error) {
	exp, err := e.store.GetExperiment(ctx, experimentID)
	if err != nil {
		return nil, err
	}

	results, err := e.detailedResults(ctx, experimentID)
	if err != nil {
		return nil, err
	}

	health, err := e.Health(ctx, experimentID)
	if err != nil {
		return nil, err
	}

	analysis := make(map[string]stats.Result)
	control, hasControl := results[models.ControlVariant]
	if hasControl && len(results) > 1 {
		for _, variant := range sortedKeys(results) {
			if variant == models.ControlVariant {
				continue
			}
			data := results[variant]
			analysis[variant] = stats.Significance(
				control.Conversions, control.Assignments,
				data.Conversions, data.Assignments,
				reportConfidenceLevel,
			)
		}
	}

	return &models.ExperimentReport{
		ExperimentID:        experimentID,
		ExperimentName:      exp.Name,
		Status:              exp.Status,
		CreatedAt:           exp.CreatedAt,
		Results:             results,
		StatisticalAnalysis: analysis,
		HealthMetrics:       health,
		Recommendations:     recommendations(results, analysis, health),
	}, nil
}

// detailedResults joins assignment counts with conversion aggregates into
// per-variant results. Variants with assignments but no conversions get
// zero-valued conversion fields; conversion rows without a matching
// assignment variant cannot occur (the tracker copies the variant from the
// assignment).
func (e *Engine) detailedResults(ctx context.Context, experimentID string) (map[string]models.VariantResult, error) {
	assignments, err := e.store.AssignmentCounts(ctx, experimentID)
	if err != nil {
		return nil, fmt.Errorf("aggregate assignments: %w", err)
	}

	conversions, err := e.store.ConversionAggregates(ctx, experimentID)
	if err != nil {
		return nil, fmt.Errorf("aggregate conversions: %w", err)
	}

	results := make(map[string]models.VariantResult, len(assignments))
	for variant, assignmentCount := range assignments {
		conv := conversions[variant]

		conversionRate := 0.0
		if assignmentCount > 0 {
			conversionRate = float64(conv.Count) / float64(assignmentCount) * 100
		}

		results[variant] = models.VariantResult{
			Assignments:    assignmentCount,
			Conversions:    conv.Count,
			ConversionRate: roundTo(conversionRate, 2),
			TotalValue:     conv.TotalValue,
			AvgValue:       conv.AvgValue,
		}
	}

	return results, nil
}

// minAssignmentsForConfidence is the total below which reports recommend
// running the experiment longer.
const minAssignmentsForConfidence = 1000

// recommendations derives advice strings from fixed rules, evaluated in
// order. Rules are not mutually exclusive; every applicable one fires.
func recommendations(results map[string]models.VariantResult, analysis map[string]stats.Result, health *models.HealthMetrics) []string {
	recs := []string{}

	totalAssignments := 0
	for _, r := range results {
		totalAssignments += r.Assignments
	}
	if totalAssignments < minAssignmentsForConfidence {
		recs = append(recs, "Consider running the experiment longer to gather more data for reliable results.")
	}

	if health != nil {
		switch health.HealthScore.Score {
		case models.HealthFair, models.HealthPoor:
			recs = append(recs, "Traffic distribution deviates from expected. Check implementation and traffic allocation.")
		}
	}

	bestVariant := ""
	bestLift := 0.0
	for _, variant := range sortedKeys(analysis) {
		res := analysis[variant]
		if !res.Significant {
			continue
		}
		lift := 0.0
		if res.Lift != nil {
			lift = *res.Lift
		}
		if bestVariant == "" || lift > bestLift {
			bestVariant = variant
			bestLift = lift
		}
	}
	if bestVariant != "" {
		recs = append(recs, fmt.Sprintf("Variant '%s' shows statistically significant improvement. Consider implementing this variant.", bestVariant))
	} else {
		recs = append(recs, "No statistically significant differences found. Consider running the experiment longer or testing more dramatic changes.")
	}

	if len(results) > 0 {
		minRate := 0.0
		maxRate := 0.0
		first := true
		for _, r := range results {
			if first {
				minRate, maxRate = r.ConversionRate, r.ConversionRate
				first = false
				continue
			}
			if r.ConversionRate < minRate {
				minRate = r.ConversionRate
			}
			if r.ConversionRate > maxRate {
				maxRate = r.ConversionRate
			}
		}
		if maxRate-minRate < 0.5 {
			recs = append(recs, "Conversion rates are very similar across variants. Consider testing more significant changes.")
		}
	}

	return recs
}
