// Copyright (c) 2026 kiryuchi10.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kiryuchi10/portfolio-experiments/experiment"
	"github.com/kiryuchi10/portfolio-experiments/models"
)

// SQL implements experiment.Store over database/sql.
//
// Queries are written once, in `?` placeholder style, and rebound to `$N`
// for postgres at execution time. Nothing above this package branches on
// the backing store.
type SQL struct {
	db   *sql.DB
	bind func(string) string
}

var _ experiment.Store = (*SQL)(nil)

// New wraps db for the given driver ("sqlite" or "postgres").
func New(db *sql.DB, driver string) *SQL {
	bind := func(q string) string { return q }
	if driver == "postgres" {
		bind = rebind
	}
	return &SQL{db: db, bind: bind}
}

// rebind rewrites ? placeholders to $1..$N. None of the schema's columns
// hold SQL text, so a bare ? can only be a placeholder.
func rebind(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// CreateExperiment inserts a new experiment row. Variants and traffic split
// are stored as JSON text.
func (s *SQL) CreateExperiment(ctx context.Context, exp *models.Experiment) error {
	variants, err := json.Marshal(exp.Variants)
	if err != nil {
		return fmt.Errorf("marshal variants: %w", err)
	}
	split, err := json.Marshal(exp.TrafficSplit)
	if err != nil {
		return fmt.Errorf("marshal traffic split: %w", err)
	}

	_, err = s.db.ExecContext(ctx, s.bind(`
		INSERT INTO experiments (id, name, description, variants, traffic_split, status, created_at, updated_at, start_date, end_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), exp.ID, exp.Name, exp.Description, string(variants), string(split),
		exp.Status, exp.CreatedAt, exp.UpdatedAt, exp.StartDate, exp.EndDate)
	if err != nil {
		return fmt.Errorf("insert experiment: %w", err)
	}
	return nil
}

// GetExperiment loads one experiment, returning experiment.ErrNotFound when
// the row is absent.
func (s *SQL) GetExperiment(ctx context.Context, id string) (*models.Experiment, error) {
	row := s.db.QueryRowContext(ctx, s.bind(`
		SELECT id, name, description, variants, traffic_split, status, created_at, updated_at, start_date, end_date
		FROM experiments
		WHERE id = ?
	`), id)

	exp, err := scanExperiment(row.Scan)
	if err == sql.ErrNoRows {
		return nil, experiment.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query experiment: %w", err)
	}
	return exp, nil
}

// ListExperimentsByStatus returns experiments with the given status, newest
// first.
func (s *SQL) ListExperimentsByStatus(ctx context.Context, status string) ([]models.Experiment, error) {
	rows, err := s.db.QueryContext(ctx, s.bind(`
		SELECT id, name, description, variants, traffic_split, status, created_at, updated_at, start_date, end_date
		FROM experiments
		WHERE status = ?
		ORDER BY created_at DESC
	`), status)
	if err != nil {
		return nil, fmt.Errorf("query experiments: %w", err)
	}
	defer rows.Close()

	experiments := []models.Experiment{}
	for rows.Next() {
		exp, err := scanExperiment(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan experiment: %w", err)
		}
		experiments = append(experiments, *exp)
	}
	return experiments, rows.Err()
}

func scanExperiment(scan func(...any) error) (*models.Experiment, error) {
	var exp models.Experiment
	var variants, split string
	var startDate, endDate sql.NullTime

	err := scan(&exp.ID, &exp.Name, &exp.Description, &variants, &split,
		&exp.Status, &exp.CreatedAt, &exp.UpdatedAt, &startDate, &endDate)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(variants), &exp.Variants); err != nil {
		return nil, fmt.Errorf("unmarshal variants: %w", err)
	}
	if err := json.Unmarshal([]byte(split), &exp.TrafficSplit); err != nil {
		return nil, fmt.Errorf("unmarshal traffic split: %w", err)
	}
	if startDate.Valid {
		exp.StartDate = &startDate.Time
	}
	if endDate.Valid {
		exp.EndDate = &endDate.Time
	}
	return &exp, nil
}

// UpdateExperimentStatus sets the status and updated_at of an experiment,
// returning experiment.ErrNotFound when no row matched.
func (s *SQL) UpdateExperimentStatus(ctx context.Context, id, status string, updatedAt time.Time) error {
	res, err := s.db.ExecContext(ctx, s.bind(`
		UPDATE experiments
		SET status = ?, updated_at = ?
		WHERE id = ?
	`), status, updatedAt, id)
	if err != nil {
		return fmt.Errorf("update experiment status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update experiment status: %w", err)
	}
	if affected == 0 {
		return experiment.ErrNotFound
	}
	return nil
}

// GetAssignment loads the assignment for one (experiment, caller) pair,
// returning experiment.ErrNotFound when absent.
func (s *SQL) GetAssignment(ctx context.Context, experimentID, userID string) (*models.Assignment, error) {
	var a models.Assignment
	err := s.db.QueryRowContext(ctx, s.bind(`
		SELECT id, experiment_id, user_id, variant, assigned_at, ip_address
		FROM assignments
		WHERE experiment_id = ? AND user_id = ?
	`), experimentID, userID).Scan(
		&a.ID, &a.ExperimentID, &a.UserID, &a.Variant, &a.AssignedAt, &a.IPAddress,
	)
	if err == sql.ErrNoRows {
		return nil, experiment.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query assignment: %w", err)
	}
	return &a, nil
}

// InsertAssignment writes a new assignment row. The table's
// UNIQUE(experiment_id, user_id) constraint surfaces concurrent duplicate
// inserts as an error from this method.
func (s *SQL) InsertAssignment(ctx context.Context, a *models.Assignment) error {
	_, err := s.db.ExecContext(ctx, s.bind(`
		INSERT INTO assignments (id, experiment_id, user_id, variant, assigned_at, ip_address)
		VALUES (?, ?, ?, ?, ?, ?)
	`), a.ID, a.ExperimentID, a.UserID, a.Variant, a.AssignedAt, a.IPAddress)
	if err != nil {
		return fmt.Errorf("insert assignment: %w", err)
	}
	return nil
}

// AssignmentCounts returns the number of assignments per variant.
func (s *SQL) AssignmentCounts(ctx context.Context, experimentID string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, s.bind(`
		SELECT variant, COUNT(*)
		FROM assignments
		WHERE experiment_id = ?
		GROUP BY variant
	`), experimentID)
	if err != nil {
		return nil, fmt.Errorf("query assignment counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var variant string
		var count int
		if err := rows.Scan(&variant, &count); err != nil {
			return nil, fmt.Errorf("scan assignment count: %w", err)
		}
		counts[variant] = count
	}
	return counts, rows.Err()
}

// AssignmentActivity returns per-variant assignment counts together with
// the number of distinct calendar days (UTC) on which assignments arrived.
// Day bucketing happens here rather than in SQL so the query stays
// dialect-free.
func (s *SQL) AssignmentActivity(ctx context.Context, experimentID string) (map[string]models.AssignmentStats, error) {
	rows, err := s.db.QueryContext(ctx, s.bind(`
		SELECT variant, assigned_at
		FROM assignments
		WHERE experiment_id = ?
	`), experimentID)
	if err != nil {
		return nil, fmt.Errorf("query assignment activity: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	days := make(map[string]map[string]bool)
	for rows.Next() {
		var variant string
		var assignedAt time.Time
		if err := rows.Scan(&variant, &assignedAt); err != nil {
			return nil, fmt.Errorf("scan assignment activity: %w", err)
		}
		counts[variant]++
		if days[variant] == nil {
			days[variant] = make(map[string]bool)
		}
		days[variant][assignedAt.UTC().Format("2006-01-02")] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	activity := make(map[string]models.AssignmentStats, len(counts))
	for variant, count := range counts {
		activity[variant] = models.AssignmentStats{
			Count:      count,
			ActiveDays: len(days[variant]),
		}
	}
	return activity, nil
}

// InsertConversion appends a conversion event row.
func (s *SQL) InsertConversion(ctx context.Context, c *models.Conversion) error {
	_, err := s.db.ExecContext(ctx, s.bind(`
		INSERT INTO conversions (id, experiment_id, user_id, variant, conversion_type, conversion_value, converted_at, ip_address)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`), c.ID, c.ExperimentID, c.UserID, c.Variant, c.ConversionType, c.ConversionValue, c.ConvertedAt, c.IPAddress)
	if err != nil {
		return fmt.Errorf("insert conversion: %w", err)
	}
	return nil
}

// ConversionAggregates returns per-variant conversion counts with total and
// average conversion value.
func (s *SQL) ConversionAggregates(ctx context.Context, experimentID string) (map[string]models.ConversionAggregate, error) {
	rows, err := s.db.QueryContext(ctx, s.bind(`
		SELECT variant, COUNT(*), COALESCE(SUM(conversion_value), 0), COALESCE(AVG(conversion_value), 0)
		FROM conversions
		WHERE experiment_id = ?
		GROUP BY variant
	`), experimentID)
	if err != nil {
		return nil, fmt.Errorf("query conversion aggregates: %w", err)
	}
	defer rows.Close()

	aggregates := make(map[string]models.ConversionAggregate)
	for rows.Next() {
		var variant string
		var agg models.ConversionAggregate
		if err := rows.Scan(&variant, &agg.Count, &agg.TotalValue, &agg.AvgValue); err != nil {
			return nil, fmt.Errorf("scan conversion aggregate: %w", err)
		}
		aggregates[variant] = agg
	}
	return aggregates, rows.Err()
}

// ConversionActivity returns per-variant conversion counts with the number
// of distinct converting callers.
func (s *SQL) ConversionActivity(ctx context.Context, experimentID string) (map[string]models.ConversionStats, error) {
	rows, err := s.db.QueryContext(ctx, s.bind(`
		SELECT variant, COUNT(*), COUNT(DISTINCT user_id)
		FROM conversions
		WHERE experiment_id = ?
		GROUP BY variant
	`), experimentID)
	if err != nil {
		return nil, fmt.Errorf("query conversion activity: %w", err)
	}
	defer rows.Close()

	activity := make(map[string]models.ConversionStats)
	for rows.Next() {
		var variant string
		var stats models.ConversionStats
		if err := rows.Scan(&variant, &stats.Conversions, &stats.UniqueConverters); err != nil {
			return nil, fmt.Errorf("scan conversion activity: %w", err)
		}
		activity[variant] = stats
	}
	return activity, rows.Err()
}
