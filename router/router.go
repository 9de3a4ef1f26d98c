// Copyright (c) 2026 kiryuchi10.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"time"

	"github.com/kiryuchi10/portfolio-experiments/cliparse"
	"github.com/kiryuchi10/portfolio-experiments/experiment"
	"github.com/kiryuchi10/portfolio-experiments/handlers"
	"github.com/kiryuchi10/portfolio-experiments/middleware"
	"github.com/kiryuchi10/portfolio-experiments/ratelimit"
)

func NewRouter(engine *experiment.Engine, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	experimentHandler := handlers.NewExperimentHandler(engine, cfg)
	trackingHandler := handlers.NewTrackingHandler(engine, cfg)
	resultsHandler := handlers.NewResultsHandler(engine)

	// Per-route quotas, keyed by client IP. Admin operations get the
	// tightest quota, tracking the loosest.
	listLimit := ratelimit.PerWindow(50, time.Minute)
	adminLimit := ratelimit.PerWindow(10, 5*time.Minute)
	trackLimit := ratelimit.PerWindow(100, time.Minute)
	analysisLimit := ratelimit.PerWindow(30, time.Minute)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Experiment management
	mux.HandleFunc("GET /experiments", middleware.WithLogging(middleware.WithRateLimit(listLimit, experimentHandler.ListExperiments)))
	mux.HandleFunc("POST /experiments", middleware.WithLogging(middleware.WithRateLimit(adminLimit, experimentHandler.CreateExperiment)))
	mux.HandleFunc("PUT /experiments/{id}/status", middleware.WithLogging(middleware.WithRateLimit(adminLimit, experimentHandler.UpdateStatus)))

	// Assignment and conversion tracking (public)
	mux.HandleFunc("POST /experiments/{id}/assign", middleware.WithLogging(middleware.WithRateLimit(trackLimit, trackingHandler.Assign)))
	mux.HandleFunc("POST /conversions", middleware.WithLogging(middleware.WithRateLimit(trackLimit, trackingHandler.TrackConversion)))

	// Results and analysis
	mux.HandleFunc("GET /experiments/{id}/results", middleware.WithLogging(middleware.WithRateLimit(analysisLimit, resultsHandler.GetResults)))
	mux.HandleFunc("GET /experiments/{id}/report", middleware.WithLogging(middleware.WithRateLimit(analysisLimit, resultsHandler.GetReport)))
	mux.HandleFunc("GET /experiments/{id}/health", middleware.WithLogging(middleware.WithRateLimit(analysisLimit, resultsHandler.GetHealth)))
	mux.HandleFunc("POST /stats/sample-size", middleware.WithLogging(middleware.WithRateLimit(analysisLimit, resultsHandler.SampleSize)))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("portfolio-experiments API v1"))
	})

	return mux
}
