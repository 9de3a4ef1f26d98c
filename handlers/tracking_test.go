// Copyright (c) 2026 kiryuchi10.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kiryuchi10/portfolio-experiments/models"
	"github.com/kiryuchi10/portfolio-experiments/testutil"
)

func TestAssignHandler(t *testing.T) {
	engine, conn, cfg := setupEngine(t)
	handler := NewTrackingHandler(engine, cfg)

	split := map[string]int{"control": 50, "treatment": 50}
	activeID := testutil.CreateTestExperiment(t, conn, models.StatusActive, split)
	draftID := testutil.CreateTestExperiment(t, conn, models.StatusDraft, split)

	assign := func(experimentID, forwardedFor, userAgent string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("POST", "/experiments/"+experimentID+"/assign", nil, map[string]string{
			"X-Forwarded-For": forwardedFor,
			"User-Agent":      userAgent,
		})
		req.SetPathValue("id", experimentID)
		w := httptest.NewRecorder()
		handler.Assign(w, req)
		return w
	}

	// First visit creates an assignment
	w := assign(activeID, "203.0.113.7", "Mozilla/5.0")
	testutil.AssertStatus(t, w, http.StatusOK)

	var first models.AssignResponse
	testutil.AssertJSON(t, w, &first)
	if first.Variant != "control" && first.Variant != "treatment" {
		t.Errorf("Unexpected variant %q", first.Variant)
	}
	if first.ExistingAssignment {
		t.Error("First visit should not report an existing assignment")
	}
	if first.UserID == "" {
		t.Error("Expected derived user_id in response")
	}

	// Same client gets the same variant back
	w = assign(activeID, "203.0.113.7", "Mozilla/5.0")
	testutil.AssertStatus(t, w, http.StatusOK)

	var second models.AssignResponse
	testutil.AssertJSON(t, w, &second)
	if !second.ExistingAssignment {
		t.Error("Repeat visit should report an existing assignment")
	}
	if second.Variant != first.Variant {
		t.Errorf("Variant changed between visits: %q then %q", first.Variant, second.Variant)
	}
	if second.UserID != first.UserID {
		t.Errorf("User ID changed between visits: %q then %q", first.UserID, second.UserID)
	}

	// A different user agent is a different caller
	w = assign(activeID, "203.0.113.7", "curl/8.0")
	var third models.AssignResponse
	testutil.AssertJSON(t, w, &third)
	if third.UserID == first.UserID {
		t.Error("Different user agent should derive a different user ID")
	}

	// Draft experiments reject new assignments
	w = assign(draftID, "203.0.113.7", "Mozilla/5.0")
	testutil.AssertStatus(t, w, http.StatusNotFound)

	// Unknown experiment
	w = assign("nonexistent", "203.0.113.7", "Mozilla/5.0")
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestAssignNeverExposesRawIP(t *testing.T) {
	engine, conn, cfg := setupEngine(t)
	handler := NewTrackingHandler(engine, cfg)

	id := testutil.CreateTestExperiment(t, conn, models.StatusActive, map[string]int{"control": 100})

	req := testutil.MakeRequest("POST", "/experiments/"+id+"/assign", nil, map[string]string{
		"X-Forwarded-For": "198.51.100.23",
	})
	req.SetPathValue("id", id)
	w := httptest.NewRecorder()
	handler.Assign(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var stored string
	if err := conn.QueryRow("SELECT ip_address FROM assignments WHERE experiment_id = ?", id).Scan(&stored); err != nil {
		t.Fatalf("Failed to query assignment: %v", err)
	}
	if stored == "198.51.100.23" {
		t.Error("Raw IP was persisted; expected a salted hash")
	}
	if stored == "" {
		t.Error("Expected a non-empty IP hash")
	}
}

func TestTrackConversionHandler(t *testing.T) {
	engine, conn, cfg := setupEngine(t)
	handler := NewTrackingHandler(engine, cfg)

	split := map[string]int{"control": 50, "treatment": 50}
	id := testutil.CreateTestExperiment(t, conn, models.StatusActive, split)

	client := map[string]string{
		"X-Forwarded-For": "203.0.113.9",
		"User-Agent":      "Mozilla/5.0",
	}

	// Assign first so the conversion has somewhere to land
	assignReq := testutil.MakeRequest("POST", "/experiments/"+id+"/assign", nil, client)
	assignReq.SetPathValue("id", id)
	aw := httptest.NewRecorder()
	NewTrackingHandler(engine, cfg).Assign(aw, assignReq)
	testutil.AssertStatus(t, aw, http.StatusOK)

	var assigned models.AssignResponse
	testutil.AssertJSON(t, aw, &assigned)

	value := 29.99
	tests := []struct {
		name           string
		requestBody    interface{}
		headers        map[string]string
		expectedStatus int
	}{
		{
			name: "valid conversion",
			requestBody: models.TrackConversionRequest{
				ExperimentID:    id,
				ConversionType:  "purchase",
				ConversionValue: &value,
			},
			headers:        client,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "defaults applied",
			requestBody:    models.TrackConversionRequest{ExperimentID: id},
			headers:        client,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing experiment_id",
			requestBody:    models.TrackConversionRequest{},
			headers:        client,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "caller never assigned",
			requestBody: models.TrackConversionRequest{ExperimentID: id},
			headers: map[string]string{
				"X-Forwarded-For": "203.0.113.200",
				"User-Agent":      "Mozilla/5.0",
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/conversions", tt.requestBody, tt.headers)
			w := httptest.NewRecorder()

			handler.TrackConversion(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusOK {
				var resp models.TrackConversionResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.Variant != assigned.Variant {
					t.Errorf("Conversion variant %q does not match assignment %q", resp.Variant, assigned.Variant)
				}
			}
		})
	}

	// The valid conversion stored its value; the default one stored 1.0
	var total float64
	if err := conn.QueryRow("SELECT SUM(conversion_value) FROM conversions WHERE experiment_id = ?", id).Scan(&total); err != nil {
		t.Fatalf("Failed to sum conversions: %v", err)
	}
	if math.Abs(total-30.99) > 1e-9 {
		t.Errorf("Expected total conversion value 30.99, got %v", total)
	}
}
