// Copyright (c) 2026 kiryuchi10.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ratelimit

import (
	"testing"
	"time"
)

func TestAllowWithinQuota(t *testing.T) {
	l := PerWindow(5, time.Minute)

	for i := 0; i < 5; i++ {
		if !l.Allow("client-1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	if l.Allow("client-1") {
		t.Error("request over quota should be denied")
	}
}

func TestClientsAreIndependent(t *testing.T) {
	l := PerWindow(2, time.Minute)

	l.Allow("client-a")
	l.Allow("client-a")
	if l.Allow("client-a") {
		t.Error("client-a should be exhausted")
	}

	if !l.Allow("client-b") {
		t.Error("client-b should have its own quota")
	}
}

func TestQuotaRefillsOverTime(t *testing.T) {
	l := PerWindow(2, time.Second)

	now := time.Now()
	l.now = func() time.Time { return now }

	if !l.Allow("client-1") || !l.Allow("client-1") {
		t.Fatal("initial quota should be allowed")
	}
	if l.Allow("client-1") {
		t.Error("third immediate request should be denied")
	}

	// A full window later the bucket has refilled
	now = now.Add(2 * time.Second)
	if !l.Allow("client-1") {
		t.Error("request after refill window should be allowed")
	}
}

func TestIdleClientsAreEvicted(t *testing.T) {
	l := PerWindow(10, time.Second)

	now := time.Now()
	l.now = func() time.Time { return now }

	l.Allow("one-shot")
	l.Allow("regular")

	if len(l.clients) != 2 {
		t.Fatalf("expected 2 tracked clients, got %d", len(l.clients))
	}

	// Keep one client active past the eviction window
	now = now.Add(900 * time.Millisecond)
	l.Allow("regular")

	now = now.Add(200 * time.Millisecond)
	l.Allow("regular")

	if _, ok := l.clients["one-shot"]; ok {
		t.Error("idle client should have been evicted")
	}
	if _, ok := l.clients["regular"]; !ok {
		t.Error("active client should still be tracked")
	}
}
