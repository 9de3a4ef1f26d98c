// Copyright (c) 2026 kiryuchi10.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The DDL sticks to the dialect subset shared by SQLite and PostgreSQL.

# Tables

The schema includes:

  - experiments: Metadata, variants, traffic split, lifecycle status
  - assignments: One row per (experiment, user), unique-constrained
  - conversions: One row per conversion event

# Relationships

	experiments 1──* assignments
	experiments 1──* conversions

All foreign keys use ON DELETE CASCADE. The UNIQUE(experiment_id, user_id)
constraint on assignments is what makes concurrent first assignments safe.
*/
package db
