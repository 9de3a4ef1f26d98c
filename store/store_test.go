// Copyright (c) 2026 kiryuchi10.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiryuchi10/portfolio-experiments/experiment"
	"github.com/kiryuchi10/portfolio-experiments/models"
	"github.com/kiryuchi10/portfolio-experiments/testutil"
)

func TestRebind(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"no placeholders", "SELECT 1", "SELECT 1"},
		{"single", "SELECT * FROM experiments WHERE id = ?", "SELECT * FROM experiments WHERE id = $1"},
		{"multiple", "INSERT INTO t (a, b, c) VALUES (?, ?, ?)", "INSERT INTO t (a, b, c) VALUES ($1, $2, $3)"},
		{"double digit", "VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", "VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rebind(tt.query))
		})
	}
}

func TestNewBindsByDriver(t *testing.T) {
	conn := testutil.SetupTestDB(t)

	sqlite := New(conn, "sqlite")
	assert.Equal(t, "WHERE id = ?", sqlite.bind("WHERE id = ?"))

	postgres := New(conn, "postgres")
	assert.Equal(t, "WHERE id = $1", postgres.bind("WHERE id = ?"))
}

func TestExperimentRoundTrip(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := New(conn, "sqlite")
	ctx := context.Background()

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	exp := &models.Experiment{
		ID:           "exp-roundtrip",
		Name:         "Landing Page Test",
		Description:  "Hero image variants",
		Variants:     []string{"control", "treatment"},
		TrafficSplit: map[string]int{"control": 50, "treatment": 50},
		Status:       models.StatusDraft,
		CreatedAt:    start,
		UpdatedAt:    start,
		StartDate:    &start,
		EndDate:      &end,
	}

	require.NoError(t, s.CreateExperiment(ctx, exp))

	got, err := s.GetExperiment(ctx, "exp-roundtrip")
	require.NoError(t, err)
	assert.Equal(t, exp.Name, got.Name)
	assert.Equal(t, exp.Variants, got.Variants)
	assert.Equal(t, exp.TrafficSplit, got.TrafficSplit)
	assert.Equal(t, exp.Status, got.Status)
	require.NotNil(t, got.StartDate)
	assert.True(t, got.StartDate.Equal(start))
	require.NotNil(t, got.EndDate)
	assert.True(t, got.EndDate.Equal(end))
}

func TestExperimentNilDates(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := New(conn, "sqlite")
	ctx := context.Background()

	now := time.Now().UTC()
	exp := &models.Experiment{
		ID:           "exp-no-dates",
		Name:         "Undated",
		Variants:     []string{"control"},
		TrafficSplit: map[string]int{"control": 100},
		Status:       models.StatusDraft,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	require.NoError(t, s.CreateExperiment(ctx, exp))

	got, err := s.GetExperiment(ctx, "exp-no-dates")
	require.NoError(t, err)
	assert.Nil(t, got.StartDate)
	assert.Nil(t, got.EndDate)
}

func TestGetExperimentNotFound(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := New(conn, "sqlite")

	_, err := s.GetExperiment(context.Background(), "missing")
	assert.ErrorIs(t, err, experiment.ErrNotFound)
}

func TestUpdateExperimentStatusNotFound(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := New(conn, "sqlite")

	err := s.UpdateExperimentStatus(context.Background(), "missing", models.StatusActive, time.Now())
	assert.ErrorIs(t, err, experiment.ErrNotFound)
}

func TestInsertAssignmentEnforcesUniqueness(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := New(conn, "sqlite")
	ctx := context.Background()

	id := testutil.CreateTestExperiment(t, conn, models.StatusActive, map[string]int{"control": 100})

	a := &models.Assignment{
		ID:           "assign-1",
		ExperimentID: id,
		UserID:       "caller-1",
		Variant:      "control",
		AssignedAt:   time.Now().UTC(),
		IPAddress:    "hash",
	}
	require.NoError(t, s.InsertAssignment(ctx, a))

	dup := *a
	dup.ID = "assign-2"
	assert.Error(t, s.InsertAssignment(ctx, &dup), "duplicate (experiment, user) insert must fail")

	// Same user in a different experiment is fine
	other := testutil.CreateTestExperiment(t, conn, models.StatusActive, map[string]int{"control": 100})
	ok := *a
	ok.ID = "assign-3"
	ok.ExperimentID = other
	assert.NoError(t, s.InsertAssignment(ctx, &ok))
}

func TestGetAssignmentNotFound(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := New(conn, "sqlite")

	_, err := s.GetAssignment(context.Background(), "exp", "nobody")
	assert.ErrorIs(t, err, experiment.ErrNotFound)
}

func TestAggregates(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := New(conn, "sqlite")
	ctx := context.Background()

	id := testutil.CreateTestExperiment(t, conn, models.StatusActive, map[string]int{"control": 50, "treatment": 50})

	testutil.CreateTestAssignment(t, conn, id, "u1", "control")
	testutil.CreateTestAssignment(t, conn, id, "u2", "control")
	testutil.CreateTestAssignment(t, conn, id, "u3", "treatment")

	testutil.CreateTestConversion(t, conn, id, "u1", "control", 10.0)
	testutil.CreateTestConversion(t, conn, id, "u1", "control", 30.0)
	testutil.CreateTestConversion(t, conn, id, "u3", "treatment", 5.0)

	counts, err := s.AssignmentCounts(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"control": 2, "treatment": 1}, counts)

	aggs, err := s.ConversionAggregates(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, aggs["control"].Count)
	assert.Equal(t, 40.0, aggs["control"].TotalValue)
	assert.Equal(t, 20.0, aggs["control"].AvgValue)
	assert.Equal(t, 1, aggs["treatment"].Count)

	// u1 converted twice but is one unique converter
	activity, err := s.ConversionActivity(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, activity["control"].Conversions)
	assert.Equal(t, 1, activity["control"].UniqueConverters)

	assignActivity, err := s.AssignmentActivity(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, assignActivity["control"].Count)
	assert.Equal(t, 1, assignActivity["control"].ActiveDays)
}

func TestAssignmentActivityCountsDistinctDays(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := New(conn, "sqlite")
	ctx := context.Background()

	id := testutil.CreateTestExperiment(t, conn, models.StatusActive, map[string]int{"control": 100})

	// Spread assignments across three calendar days
	for i, daysAgo := range []int{0, 1, 1, 2} {
		a := &models.Assignment{
			ID:           "assign-day-" + string(rune('a'+i)),
			ExperimentID: id,
			UserID:       "day-user-" + string(rune('a'+i)),
			Variant:      "control",
			AssignedAt:   time.Now().UTC().AddDate(0, 0, -daysAgo),
			IPAddress:    "hash",
		}
		require.NoError(t, s.InsertAssignment(ctx, a))
	}

	activity, err := s.AssignmentActivity(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 4, activity["control"].Count)
	assert.Equal(t, 3, activity["control"].ActiveDays)
}
