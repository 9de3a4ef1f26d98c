// Copyright (c) 2026 kiryuchi10.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ratelimit provides per-client request quotas built on
golang.org/x/time/rate.

Each client key gets its own token bucket sized to a requests-per-window
quota. Idle entries are swept after a full window so the map does not grow
with every IP ever seen.
*/
package ratelimit
