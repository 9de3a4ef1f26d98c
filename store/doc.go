// Copyright (c) 2026 kiryuchi10.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store implements experiment.Store on database/sql.

Queries are written once with ? placeholders; New rebinds them to $N when
the driver is PostgreSQL. SQLite (modernc.org/sqlite) and PostgreSQL
(lib/pq) are the supported drivers.
*/
package store
