package service

import "time"

// Defaults for the account lockout policy.
const (
	DefaultLockThreshold = 5
	DefaultLockDuration  = 15 * time.Minute
)

// epochZero is the "not locked" sentinel stored in locked_until.
var epochZero = time.Unix(0, 0).UTC()

// LockoutPolicy decides whether a login attempt may proceed and computes the
// next lock state after a failure or success. It is pure: no clock, no I/O.
//
// The lock is a sliding timestamp rather than a boolean, so expiry needs no
// background sweep: any reader comparing against "now" self-expires the lock.
type LockoutPolicy struct {
	Threshold int
	Duration  time.Duration
}

func NewLockoutPolicy(threshold int, duration time.Duration) LockoutPolicy {
	if threshold <= 0 {
		threshold = DefaultLockThreshold
	}
	if duration <= 0 {
		duration = DefaultLockDuration
	}
	return LockoutPolicy{Threshold: threshold, Duration: duration}
}

// Evaluate reports whether the account is locked at the given time. This runs
// before password verification so locked accounts never cost a hash.
func (p LockoutPolicy) Evaluate(now, lockedUntil time.Time) bool {
	return lockedUntil.After(now)
}

// OnFailure returns the counter and lock expiry after one more failed
// attempt. Crossing the threshold sets the lock; below it, the previous lock
// timestamp is carried through unchanged.
func (p LockoutPolicy) OnFailure(now time.Time, failedAttempts int, lockedUntil time.Time) (int, time.Time) {
	attempts := failedAttempts + 1
	if attempts >= p.Threshold {
		return attempts, now.Add(p.Duration)
	}
	return attempts, lockedUntil
}

// OnSuccess resets the counter and clears the lock regardless of prior state.
func (p LockoutPolicy) OnSuccess() (int, time.Time) {
	return 0, epochZero
}
