// Package timer implements a portable, wrap-safe millisecond timer
// (spec.md §4.7, §3.6). It owns no clock: now is supplied by an external
// tick source (an ISR-incremented counter on embedded targets, or a
// synthetic counter in tests) every call.
package timer

// Unit is the timer's counter type: a free-running, wrap-around
// millisecond count.
type Unit = uint32

// Timer holds a relative deadline. Its lifetime is that of its owner; it
// never allocates.
type Timer struct {
	Enabled    bool
	SetTime    Unit
	ExpireTime Unit
}

// signedDiff interprets a-b as a two's-complement int32, which is exactly
// what "subtract two uint32 counters, treat the top bit as sign" means:
// wraparound-correct regardless of how many times either counter has
// overflowed.
func signedDiff(a, b Unit) int32 {
	return int32(a - b)
}

// SetRel arms the timer to expire rel ms after now.
func SetRel(t *Timer, now, rel Unit) {
	t.SetTime = now
	t.ExpireTime = now + rel
	t.Enabled = true
}

// hasElapsed implements spec.md §4.7's two-part wraparound-safe test:
// now has passed ExpireTime in the signed sense, and the elapsed time
// since SetTime is at least the configured span (this second test only
// changes the result when the span is 2^31 or more, where the signed test
// alone would report expiry too early).
func hasElapsed(t *Timer, now Unit) bool {
	if signedDiff(now, t.ExpireTime) < 0 {
		return false
	}
	span := t.ExpireTime - t.SetTime
	elapsed := now - t.SetTime
	return elapsed >= span
}

// IsExpired reports whether the timer is enabled and now has reached its
// expiration, and disables it if so.
func IsExpired(t *Timer, now Unit) bool {
	if !t.Enabled || !hasElapsed(t, now) {
		return false
	}
	t.Enabled = false
	return true
}

// IsExpiredRepeat behaves like IsExpired, but on expiry it re-arms for the
// same period instead of disabling: new SetTime is the old ExpireTime, new
// ExpireTime is old ExpireTime + (old ExpireTime - old SetTime). This
// preserves the original period even if now overshot by more than one
// period — repeated calls catch up one period at a time rather than
// drifting, by design (a single call advances by exactly one period; a
// caller polling fast enough will observe one true per elapsed period).
func IsExpiredRepeat(t *Timer, now Unit) bool {
	if !t.Enabled || !hasElapsed(t, now) {
		return false
	}
	period := t.ExpireTime - t.SetTime
	t.SetTime = t.ExpireTime
	t.ExpireTime = t.ExpireTime + period
	return true
}
