// Copyright (c) 2026 kiryuchi10.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kiryuchi10/portfolio-experiments/cliparse"
	"github.com/kiryuchi10/portfolio-experiments/db"
	"github.com/kiryuchi10/portfolio-experiments/identity"
)

// SetupTestDB creates a fresh in-memory SQLite database with the full schema.
// A single connection keeps the :memory: database alive for the test's
// lifetime and serializes concurrent access the way production databases do.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	conn.SetMaxOpenConns(1)

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	t.Cleanup(func() { conn.Close() })

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         8090,
		DatabaseURL:  ":memory:",
		DatabaseType: "sqlite",
		IdentitySalt: "test-identity-salt",
		AdminKeySalt: "test-admin-salt",
	}
}

// CreateTestExperiment inserts an experiment row and returns its ID.
// status should be "draft", "active", "paused", or "completed".
func CreateTestExperiment(t *testing.T, conn *sql.DB, status string, trafficSplit map[string]int) string {
	t.Helper()

	experimentID, _ := identity.GenerateID(16)

	variants := make([]string, 0, len(trafficSplit))
	for name := range trafficSplit {
		variants = append(variants, name)
	}

	variantsJSON, _ := json.Marshal(variants)
	splitJSON, _ := json.Marshal(trafficSplit)

	now := time.Now().UTC()
	_, err := conn.Exec(`
		INSERT INTO experiments (id, name, description, variants, traffic_split, status, created_at, updated_at)
		VALUES (?, 'Test Experiment', 'A test experiment', ?, ?, ?, ?, ?)
	`, experimentID, string(variantsJSON), string(splitJSON), status, now, now)
	if err != nil {
		t.Fatalf("Failed to create test experiment: %v", err)
	}

	return experimentID
}

// CreateTestAssignment inserts an assignment row for a user
func CreateTestAssignment(t *testing.T, conn *sql.DB, experimentID, userID, variant string) {
	t.Helper()

	id, _ := identity.GenerateID(16)
	_, err := conn.Exec(`
		INSERT INTO assignments (id, experiment_id, user_id, variant, assigned_at, ip_address)
		VALUES (?, ?, ?, ?, ?, 'testhash')
	`, id, experimentID, userID, variant, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test assignment: %v", err)
	}
}

// CreateTestConversion inserts a conversion row for a user
func CreateTestConversion(t *testing.T, conn *sql.DB, experimentID, userID, variant string, value float64) {
	t.Helper()

	id, _ := identity.GenerateID(16)
	_, err := conn.Exec(`
		INSERT INTO conversions (id, experiment_id, user_id, variant, conversion_type, conversion_value, converted_at, ip_address)
		VALUES (?, ?, ?, ?, 'default', ?, ?, 'testhash')
	`, id, experimentID, userID, variant, value, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test conversion: %v", err)
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
