// Copyright (c) 2026 kiryuchi10.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the portfolio experiments API server.

The server runs A/B experiments for a portfolio site: visitors are bucketed
deterministically into variants, conversion events are tracked per variant,
and results are analyzed with two-proportion Z-tests.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=experiments.db IDENTITY_SALT=... ADMIN_KEY_SALT=... go run main.go

Or with flags:

	go run main.go -p 8090 -d "postgres://..." -t postgres --identity-salt ... --admin-salt ...

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string
  - IDENTITY_SALT (--identity-salt): Secret for caller IP hashing
  - ADMIN_KEY_SALT (--admin-salt): Secret for admin key HMAC

Optional settings:

  - PORT (-p): Server port (default: 8090)
  - DATABASE_TYPE (-t): "sqlite" or "postgres" (default: sqlite)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (experiments, tracking, results)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, rate limiting, JSON helpers
  - models: Request/response types
  - experiment: Bucketing, lifecycle, health, and reporting logic
  - stats: Significance testing and sample-size math
  - store: SQL persistence behind the experiment.Store interface
  - identity: Anonymous caller IDs, admin keys, IP hashing
  - ratelimit: Per-client request quotas
  - db: Schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
