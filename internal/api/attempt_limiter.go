package api

import (
	"slices"
	"sync"
	"time"
)

// accountLockout counts wrong passwords per client and login id. Once limit
// failures fall inside window the pair is refused until the oldest one ages
// out. A successful login clears the pair.
type accountLockout struct {
	limit  int
	window time.Duration

	mu       sync.Mutex
	failures map[string][]time.Time
}

func newAccountLockout(limit int, window time.Duration) *accountLockout {
	return &accountLockout{
		limit:    limit,
		window:   window,
		failures: make(map[string][]time.Time),
	}
}

// locked reports whether key is refused at now and, if so, how long until the
// next attempt is allowed.
func (lockout *accountLockout) locked(key string, now time.Time) (bool, time.Duration) {
	lockout.mu.Lock()
	defer lockout.mu.Unlock()

	recent := lockout.liveLocked(key, now)
	if len(recent) < lockout.limit {
		return false, 0
	}
	oldest := recent[len(recent)-lockout.limit]
	return true, oldest.Add(lockout.window).Sub(now)
}

func (lockout *accountLockout) fail(key string, now time.Time) {
	lockout.mu.Lock()
	defer lockout.mu.Unlock()

	lockout.failures[key] = append(lockout.liveLocked(key, now), now)
}

func (lockout *accountLockout) clear(key string) {
	lockout.mu.Lock()
	defer lockout.mu.Unlock()

	delete(lockout.failures, key)
}

// sweep drops every pair whose failures have all aged out.
func (lockout *accountLockout) sweep(now time.Time) int {
	lockout.mu.Lock()
	defer lockout.mu.Unlock()

	removed := 0
	for key := range lockout.failures {
		if len(lockout.liveLocked(key, now)) == 0 {
			removed++
		}
	}
	return removed
}

func (lockout *accountLockout) liveLocked(key string, now time.Time) []time.Time {
	cutoff := now.Add(-lockout.window)
	live := slices.DeleteFunc(lockout.failures[key], func(at time.Time) bool {
		return !at.After(cutoff)
	})
	if len(live) == 0 {
		delete(lockout.failures, key)
		return nil
	}
	lockout.failures[key] = live
	return live
}

func failedLoginKey(clientKey string, loginID string) string {
	return clientKey + "|" + loginID
}
