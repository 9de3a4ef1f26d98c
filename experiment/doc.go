// Copyright (c) 2026 kiryuchi10.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package experiment implements the A/B testing engine: experiment lifecycle,
deterministic variant assignment, conversion tracking, distribution health,
and report generation.

The Engine holds no state beyond a Store and a clock. All persistence goes
through the Store interface, so the engine is testable against an in-memory
database and portable across SQL dialects.

# Lifecycle

Experiments move draft → active → paused/completed. Paused experiments can
resume; completed is terminal. Only active experiments accept new
assignments, but existing assignments keep answering with their persisted
variant regardless of status, so returning visitors never see a variant
flip.

# Assignment

Assign is check-then-insert with the store's unique constraint as the
arbiter of races. Track copies the variant from the stored assignment
rather than re-deriving it, which keeps historical data consistent if a
traffic split is ever edited.

# Reporting

Report combines per-variant aggregates, two-proportion significance tests
against the control variant, traffic-distribution health, and rule-based
recommendation strings into a single document.
*/
package experiment
