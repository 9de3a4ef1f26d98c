// Copyright (c) 2026 kiryuchi10.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"time"

	"github.com/kiryuchi10/portfolio-experiments/stats"
)

// Experiment status constants
const (
	StatusDraft     = "draft"
	StatusActive    = "active"
	StatusPaused    = "paused"
	StatusCompleted = "completed"
)

// ControlVariant is the variant name treated as the baseline in reports
// and as the bucketing fallback.
const ControlVariant = "control"

// DefaultConversionType is used when a conversion event carries no type.
const DefaultConversionType = "default"

// Request types

type CreateExperimentRequest struct {
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	Variants     []string       `json:"variants"`
	TrafficSplit map[string]int `json:"traffic_split"`
	StartDate    *time.Time     `json:"start_date,omitempty"`
	EndDate      *time.Time     `json:"end_date,omitempty"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type TrackConversionRequest struct {
	ExperimentID    string   `json:"experiment_id"`
	ConversionType  string   `json:"conversion_type,omitempty"`
	ConversionValue *float64 `json:"conversion_value,omitempty"`
}

type SampleSizeRequest struct {
	BaselineRate            float64  `json:"baseline_rate"`
	MinimumDetectableEffect float64  `json:"minimum_detectable_effect"`
	Power                   *float64 `json:"power,omitempty"`
	SignificanceLevel       *float64 `json:"significance_level,omitempty"`
}

// Response types

type CreateExperimentResponse struct {
	ExperimentID string `json:"experiment_id"`
	AdminKey     string `json:"admin_key"`
}

type UpdateStatusResponse struct {
	Message string `json:"message"`
}

type ListExperimentsResponse struct {
	Experiments []Experiment `json:"experiments"`
}

type AssignResponse struct {
	Variant            string `json:"variant"`
	UserID             string `json:"user_id"`
	ExistingAssignment bool   `json:"existing_assignment"`
}

type TrackConversionResponse struct {
	Variant string `json:"variant"`
	Message string `json:"message"`
}

type SampleSizeResponse struct {
	SampleSizePerVariant    int     `json:"sample_size_per_variant"`
	BaselineRate            float64 `json:"baseline_rate"`
	MinimumDetectableEffect float64 `json:"minimum_detectable_effect"`
	Power                   float64 `json:"power"`
	SignificanceLevel       float64 `json:"significance_level"`
}

type ResultsResponse struct {
	ExperimentID     string                   `json:"experiment_id"`
	ExperimentName   string                   `json:"experiment_name"`
	Results          map[string]VariantResult `json:"results"`
	TotalAssignments int                      `json:"total_assignments"`
	TotalConversions int                      `json:"total_conversions"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Domain types

type Experiment struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	Variants     []string       `json:"variants"`
	TrafficSplit map[string]int `json:"traffic_split"`
	Status       string         `json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	StartDate    *time.Time     `json:"start_date,omitempty"`
	EndDate      *time.Time     `json:"end_date,omitempty"`
}

type Assignment struct {
	ID           string    `json:"id"`
	ExperimentID string    `json:"experiment_id"`
	UserID       string    `json:"-"` // Never expose in JSON
	Variant      string    `json:"variant"`
	AssignedAt   time.Time `json:"assigned_at"`
	IPAddress    string    `json:"-"` // Never expose in JSON
}

type Conversion struct {
	ID              string    `json:"id"`
	ExperimentID    string    `json:"experiment_id"`
	UserID          string    `json:"-"`
	Variant         string    `json:"variant"`
	ConversionType  string    `json:"conversion_type"`
	ConversionValue float64   `json:"conversion_value"`
	ConvertedAt     time.Time `json:"converted_at"`
	IPAddress       string    `json:"-"`
}

// Aggregate types

// VariantResult is the per-variant slice of experiment results: how many
// callers were bucketed into the variant, how many conversion events they
// fired, and the value those events carried.
type VariantResult struct {
	Assignments    int     `json:"assignments"`
	Conversions    int     `json:"conversions"`
	ConversionRate float64 `json:"conversion_rate"`
	TotalValue     float64 `json:"total_value"`
	AvgValue       float64 `json:"avg_value"`
}

// ConversionAggregate carries raw conversion sums per variant before they
// are folded into a VariantResult.
type ConversionAggregate struct {
	Count      int     `json:"count"`
	TotalValue float64 `json:"total_value"`
	AvgValue   float64 `json:"avg_value"`
}

// Health monitoring types

type VariantTraffic struct {
	ExpectedPercent  int     `json:"expected_percent"`
	ActualPercent    float64 `json:"actual_percent"`
	Deviation        float64 `json:"deviation"`
	ChiSquareContrib float64 `json:"chi_square_contrib"`
}

type AssignmentStats struct {
	Count      int `json:"count"`
	ActiveDays int `json:"active_days"`
}

type ConversionStats struct {
	Conversions      int `json:"conversions"`
	UniqueConverters int `json:"unique_converters"`
}

// Health score buckets
const (
	HealthInsufficientData = "insufficient_data"
	HealthExcellent        = "excellent"
	HealthGood             = "good"
	HealthFair             = "fair"
	HealthPoor             = "poor"
)

type HealthScore struct {
	Score        string   `json:"score"`
	Message      string   `json:"message"`
	AvgDeviation *float64 `json:"avg_deviation,omitempty"`
}

type HealthMetrics struct {
	ExperimentName   string                     `json:"experiment_name"`
	RuntimeDays      int                        `json:"runtime_days"`
	TotalAssignments int                        `json:"total_assignments"`
	TrafficHealth    map[string]VariantTraffic  `json:"traffic_health"`
	AssignmentData   map[string]AssignmentStats `json:"assignment_data"`
	ConversionData   map[string]ConversionStats `json:"conversion_data"`
	HealthScore      HealthScore                `json:"health_score"`
}

// Report types

type ExperimentReport struct {
	ExperimentID        string                   `json:"experiment_id"`
	ExperimentName      string                   `json:"experiment_name"`
	Status              string                   `json:"status"`
	CreatedAt           time.Time                `json:"created_at"`
	Results             map[string]VariantResult `json:"results"`
	StatisticalAnalysis map[string]stats.Result  `json:"statistical_analysis"`
	HealthMetrics       *HealthMetrics           `json:"health_metrics"`
	Recommendations     []string                 `json:"recommendations"`
}
