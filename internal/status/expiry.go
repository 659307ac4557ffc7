package status

import "time"

// DefaultTTL is the fixed time-to-live of every content unit.
const DefaultTTL = 24 * time.Hour

// TimeLeft is the remaining lifetime of a content unit, broken down for
// display. Percent is floored and clamped to [0, 100].
type TimeLeft struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
	Percent int `json:"percent"`
}

// IsExpired reports whether a unit created at createdAt is expired at now.
// The boundary is inclusive: exactly at TTL counts as expired.
func IsExpired(createdAt, now time.Time, ttl time.Duration) bool {
	return now.Sub(createdAt) >= ttl
}

// Remaining computes how much lifetime a unit has left. Once expired it
// returns the zero TimeLeft.
func Remaining(createdAt, now time.Time, ttl time.Duration) TimeLeft {
	elapsed := now.Sub(createdAt)
	if elapsed >= ttl {
		return TimeLeft{}
	}
	left := ttl - elapsed
	percent := int(left * 100 / ttl)
	if percent > 100 {
		percent = 100
	}
	// content that is still live never reports zero, even in its last sliver
	if percent < 1 {
		percent = 1
	}
	return TimeLeft{
		Hours:   int(left.Hours()),
		Minutes: int(left.Minutes()) % 60,
		Seconds: int(left.Seconds()) % 60,
		Percent: percent,
	}
}
