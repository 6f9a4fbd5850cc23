package internal

import (
	"fmt"
	"time"
)

// RoundingPolicy determines how entry durations are rounded for billing.
type RoundingPolicy string

const (
	RoundingNone  RoundingPolicy = "none"
	Rounding15Min RoundingPolicy = "15min"
	Rounding30Min RoundingPolicy = "30min"
)

// ParseRoundingPolicy parses a rounding policy string.
func ParseRoundingPolicy(s string) (RoundingPolicy, error) {
	switch RoundingPolicy(s) {
	case RoundingNone, Rounding15Min, Rounding30Min:
		return RoundingPolicy(s), nil
	default:
		return "", fmt.Errorf("unknown rounding policy: %q (supported: none, 15min, 30min)", s)
	}
}

// Increment returns the rounding increment, or zero for pass-through.
func (p RoundingPolicy) Increment() time.Duration {
	switch p {
	case Rounding15Min:
		return 15 * time.Minute
	case Rounding30Min:
		return 30 * time.Minute
	default:
		return 0
	}
}

// RoundDuration rounds d to the policy's increment using round-half-up.
// Rounding applies to the duration (and so to the entry's billed end), never
// to the start, so adjacent entries stay disjoint.
func RoundDuration(d time.Duration, p RoundingPolicy) time.Duration {
	inc := p.Increment()
	if inc == 0 {
		return d
	}
	return (d + inc/2) / inc * inc
}

// RoundedDuration returns the entry's billed duration under the policy.
func (e *Entry) RoundedDuration(p RoundingPolicy) time.Duration {
	return RoundDuration(e.Duration(), p)
}

// RoundedHours returns the billed duration in hours.
func (e *Entry) RoundedHours(p RoundingPolicy) float64 {
	return e.RoundedDuration(p).Hours()
}
