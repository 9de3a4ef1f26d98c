// Copyright (c) 2026 kiryuchi10.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateExperimentRequest: name, description, variants, traffic_split
  - UpdateStatusRequest: status
  - TrackConversionRequest: experiment_id, conversion_type, conversion_value
  - SampleSizeRequest: baseline_rate, minimum_detectable_effect, power, significance_level

# Response Types

Types for JSON responses:

  - CreateExperimentResponse: experiment_id, admin_key
  - AssignResponse: variant, user_id, existing_assignment
  - TrackConversionResponse: variant, message
  - ResultsResponse: per-variant results plus totals
  - SampleSizeResponse: sample_size_per_variant plus echoed inputs
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - Experiment: metadata, variants, traffic split, lifecycle state
  - Assignment: one row per (experiment, user) pair
  - Conversion: one row per conversion event, never deduplicated
  - VariantResult: aggregated assignments, conversions, rates, values
  - HealthMetrics: traffic distribution health and activity stats
  - ExperimentReport: results, analysis, health, recommendations

# Constants

Experiment status values: draft, active, paused, completed.
Health scores: insufficient_data, excellent, good, fair, poor.

UserID and IPAddress fields carry `json:"-"` tags. They hold hashed caller
identity and must never appear in API responses.
*/
package models
