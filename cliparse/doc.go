// Copyright (c) 2026 kiryuchi10.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 8090)
  - DatabaseURL: SQLite path or PostgreSQL connection string (required)
  - DatabaseType: "sqlite" or "postgres" (default: sqlite)
  - IdentitySalt: Secret for caller IP hashing (required)
  - AdminKeySalt: Secret for admin key HMAC (required)

# CLI Flags

	-p              Server port
	-d              Database URL or file path
	-t              Database type
	--identity-salt Identity salt
	--admin-salt    Admin key salt

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	DATABASE_URL   → -d
	DATABASE_TYPE  → -t
	IDENTITY_SALT  → --identity-salt
	ADMIN_KEY_SALT → --admin-salt

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if required values are missing or the database
type is not one of "sqlite" or "postgres".

# Example

	// In main.go
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	db, err := sql.Open(cfg.DriverName(), cfg.DatabaseURL)
	// ...
	mux := router.NewRouter(engine, cfg)
*/
package cliparse
