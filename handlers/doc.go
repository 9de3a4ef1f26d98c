// Copyright (c) 2026 kiryuchi10.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the experiments API.

# Handler Types

Each handler is a struct with engine and config dependencies:

  - ExperimentHandler: Experiment lifecycle (list, create, status changes)
  - TrackingHandler: Variant assignment and conversion tracking
  - ResultsHandler: Results, reports, health, sample-size calculations

Handlers are created via constructor functions:

	experimentHandler := handlers.NewExperimentHandler(engine, cfg)

# Experiment Lifecycle

Experiments progress through four states: draft → active → paused/completed

	POST /experiments               → CreateExperiment (returns admin_key)
	PUT  /experiments/{id}/status   → UpdateStatus (X-Admin-Key required)

# Caller Identity

Tracking endpoints never receive a user ID from the client. The identity is
derived server-side from IP and User-Agent, so the same visitor always maps
to the same anonymous ID and the same variant.
*/
package handlers
