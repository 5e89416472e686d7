package retry

import "time"

// MaxBackoff caps the delay returned by ExponentialBackoff.
const MaxBackoff = 5 * time.Minute

// ExponentialBackoff returns delay based on attempt number.
// The delay doubles with each attempt: base * 2^attempt, capped at MaxBackoff.
func ExponentialBackoff(attempt int, base time.Duration) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt >= 32 {
		return MaxBackoff
	}
	d := base * (1 << attempt)
	if d <= 0 || d > MaxBackoff {
		return MaxBackoff
	}
	return d
}
