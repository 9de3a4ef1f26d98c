// Copyright (c) 2026 kiryuchi10.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the portfolio experiments API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(engine, cfg)

# Endpoints

Health:

	GET /health

Experiment management (create returns the admin key; status changes
require X-Admin-Key):

	GET  /experiments             - List active experiments
	POST /experiments             - Create experiment
	PUT  /experiments/{id}/status - Change lifecycle state

Tracking (public):

	POST /experiments/{id}/assign - Bucket caller into a variant
	POST /conversions             - Record a conversion event

Analysis:

	GET  /experiments/{id}/results - Per-variant aggregates
	GET  /experiments/{id}/report  - Full report with significance
	GET  /experiments/{id}/health  - Traffic distribution health
	POST /stats/sample-size        - Required sample size calculator

# Rate Limits

Each route group carries its own per-IP quota: 10 per 5 minutes for admin
operations, 50 per minute for listing, 100 per minute for tracking, and
30 per minute for analysis endpoints.
*/
package router
