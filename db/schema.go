// Copyright (c) 2026 kiryuchi10.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// The DDL sticks to the sqlite/postgres common subset: TEXT primary keys
// generated in Go, explicit timestamps, JSON stored as TEXT.
const schema = `
-- Experiments
CREATE TABLE IF NOT EXISTS experiments (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT,
    variants TEXT NOT NULL,
    traffic_split TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'draft' CHECK (status IN ('draft', 'active', 'paused', 'completed')),
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL,
    start_date TIMESTAMP,
    end_date TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_experiments_status ON experiments(status);
CREATE INDEX IF NOT EXISTS idx_experiments_created_at ON experiments(created_at);

-- Assignments
-- UNIQUE(experiment_id, user_id) is the engine's central correctness
-- property: concurrent first assignments race to this constraint.
CREATE TABLE IF NOT EXISTS assignments (
    id TEXT PRIMARY KEY,
    experiment_id TEXT NOT NULL REFERENCES experiments(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL,
    variant TEXT NOT NULL,
    assigned_at TIMESTAMP NOT NULL,
    ip_address TEXT,
    UNIQUE (experiment_id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_assignments_experiment ON assignments(experiment_id);
CREATE INDEX IF NOT EXISTS idx_assignments_variant ON assignments(experiment_id, variant);

-- Conversions (append-only, never deduplicated)
CREATE TABLE IF NOT EXISTS conversions (
    id TEXT PRIMARY KEY,
    experiment_id TEXT NOT NULL REFERENCES experiments(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL,
    variant TEXT NOT NULL,
    conversion_type TEXT NOT NULL DEFAULT 'default',
    conversion_value REAL NOT NULL DEFAULT 1.0,
    converted_at TIMESTAMP NOT NULL,
    ip_address TEXT
);

CREATE INDEX IF NOT EXISTS idx_conversions_experiment ON conversions(experiment_id);
CREATE INDEX IF NOT EXISTS idx_conversions_variant ON conversions(experiment_id, variant);
CREATE INDEX IF NOT EXISTS idx_conversions_type ON conversions(conversion_type);
`
