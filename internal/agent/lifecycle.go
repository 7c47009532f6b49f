// AngelaMos | 2026
// lifecycle.go

package agent

import (
	"time"
)

// Pure lifecycle projections. Nothing here mutates or persists; callers
// decide whether a discovered transition gets written back.

func IsTrialExpired(a *Agent, now time.Time) bool {
	return now.After(a.TrialExpiresAt)
}

func IsInTrial(a *Agent, now time.Time) bool {
	return a.Status == StatusTrial && !IsTrialExpired(a, now)
}

// DaysRemaining returns the number of whole or partial days left in the
// trial, clamped to zero. Non-trial agents always report zero.
func DaysRemaining(a *Agent, now time.Time) int {
	if a.Status != StatusTrial {
		return 0
	}

	remaining := a.TrialExpiresAt.Sub(now)
	if remaining <= 0 {
		return 0
	}

	days := int(remaining / (24 * time.Hour))
	if remaining%(24*time.Hour) > 0 {
		days++
	}

	return days
}

// NormalizeStatus maps a stale stored "trial" past its expiry to
// "trial_expired". The only transition; one-directional, discovered on
// read rather than scheduled.
func NormalizeStatus(a Agent, now time.Time) Agent {
	if a.Status == StatusTrial && IsTrialExpired(&a, now) {
		a.Status = StatusTrialExpired
	}
	return a
}
