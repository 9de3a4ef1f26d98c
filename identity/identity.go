// Copyright (c) 2026 kiryuchi10.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package identity

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

var ErrInvalidAdminKey = errors.New("invalid admin key")

var oneHundred = big.NewInt(100)

// CallerID derives a stable pseudonymous user ID from request metadata.
// The same IP and user-agent always map to the same ID, so no server-side
// session state is needed.
//
// MD5 with the exact "ip:user_agent" input is a pinned wire-format detail:
// implementations in other languages must produce identical IDs for the
// same client. It is an identifier contract, not a security boundary.
func CallerID(ip, userAgent string) string {
	sum := md5.Sum([]byte(ip + ":" + userAgent))
	return hex.EncodeToString(sum[:])
}

// Bucket maps a caller to an integer in [1,100] for traffic-split
// assignment. The hash input is "experiment_id:user_id" and the 128-bit MD5
// digest is reduced as an arbitrary-precision integer mod 100, matching the
// big-integer semantics other implementations use. Pinned, like CallerID.
func Bucket(experimentID, userID string) int {
	sum := md5.Sum([]byte(experimentID + ":" + userID))
	n := new(big.Int).SetBytes(sum[:])
	return int(n.Mod(n, oneHundred).Int64()) + 1
}

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// AdminKey creates an HMAC-based admin key for an experiment.
// This is deterministic and verifiable without storing the key.
func AdminKey(experimentID, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(experimentID))
	sum := h.Sum(nil)
	// URL-safe base64 without padding for cleaner keys
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateAdminKey checks if the provided admin key is valid for the experiment
func ValidateAdminKey(experimentID, adminKey, salt string) error {
	expected := AdminKey(experimentID, salt)
	if !hmac.Equal([]byte(adminKey), []byte(expected)) {
		return ErrInvalidAdminKey
	}
	return nil
}

// HashIP creates a one-way salted hash of an IP address for privacy.
// Assignments and conversions persist this instead of the raw address.
func HashIP(ip, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// First 16 hex chars (64 bits) - enough for deduplication
	return hex.EncodeToString(sum[:8])
}
