package api

import (
	"testing"
	"time"
)

func TestAccountLockoutWindowAndClear(t *testing.T) {
	t.Parallel()

	lockout := newAccountLockout(2, time.Hour)
	key := failedLoginKey("127.0.0.1", "OP-100")
	now := time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC)

	lockout.fail(key, now.Add(-2*time.Hour))
	lockout.fail(key, now.Add(-40*time.Minute))
	if isLocked, _ := lockout.locked(key, now); isLocked {
		t.Fatal("expected failure outside the window to be ignored")
	}

	lockout.fail(key, now.Add(-10*time.Minute))
	isLocked, retryAfter := lockout.locked(key, now)
	if !isLocked {
		t.Fatal("expected two recent failures to lock the pair")
	}
	if retryAfter != 20*time.Minute {
		t.Fatalf("expected retry after 20m, got %s", retryAfter)
	}
	if isLocked, _ := lockout.locked(failedLoginKey("127.0.0.1", "OP-101"), now); isLocked {
		t.Fatal("expected other login ids to be tracked separately")
	}

	lockout.clear(key)
	if isLocked, _ := lockout.locked(key, now); isLocked {
		t.Fatal("expected no failures after clear")
	}
}

func TestAccountLockoutSweepDropsStalePairs(t *testing.T) {
	t.Parallel()

	lockout := newAccountLockout(3, 15*time.Minute)
	now := time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC)
	lockout.fail(failedLoginKey("10.0.0.1", "dr.rao"), now.Add(-time.Hour))
	lockout.fail(failedLoginKey("10.0.0.2", "dr.rao"), now.Add(-time.Minute))

	if removed := lockout.sweep(now); removed != 1 {
		t.Fatalf("expected one stale pair removed, got %d", removed)
	}
	if len(lockout.failures) != 1 {
		t.Fatalf("expected one live pair left, got %d", len(lockout.failures))
	}
}
