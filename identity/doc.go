// Copyright (c) 2026 kiryuchi10.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package identity provides caller identity and key generation utilities.

# Caller IDs

Visitors are never asked to log in. A stable anonymous ID is derived from
the request itself:

	userID := identity.CallerID(ip, userAgent)

The ID is the MD5 hex digest of "ip:user_agent". The same visitor always
gets the same ID, which is what makes assignment-before-storage lookup and
deterministic bucketing possible.

# Bucketing

Bucket maps an (experiment, user) pair to an integer in [1, 100]:

	bucket := identity.Bucket(experimentID, userID)

The value is the MD5 digest of "experiment_id:user_id" reduced modulo 100,
plus one. Any implementation of the same formula buckets identically, so
assignments survive server restarts and horizontal scaling.

MD5 is used here as a uniform hash, not for security. Collision resistance
is irrelevant; distribution uniformity is what matters.

# Admin Keys

Admin keys use HMAC-SHA256 to create deterministic, verifiable keys:

	adminKey := identity.AdminKey(experimentID, salt)
	err := identity.ValidateAdminKey(experimentID, adminKey, salt)

The key is URL-safe base64 encoded without padding. Since it's deterministic,
the same experiment ID and salt always produce the same key. This allows
validation without storing the key in the database.

# IP Hashing

Raw IPs never reach storage. HashIP produces a salted HMAC-SHA256 digest,
truncated, for abuse analysis without holding personal data:

	ipHash := identity.HashIP(ip, salt)
*/
package identity
