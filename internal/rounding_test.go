package internal

import (
	"testing"
	"time"
)

func TestRoundDuration(t *testing.T) {
	tests := []struct {
		name   string
		d      time.Duration
		policy RoundingPolicy
		want   time.Duration
	}{
		{"none passes through", 7*time.Minute + 13*time.Second, RoundingNone, 7*time.Minute + 13*time.Second},
		{"15min rounds down below midpoint", 7 * time.Minute, Rounding15Min, 0},
		{"15min rounds up at midpoint", 7*time.Minute + 30*time.Second, Rounding15Min, 15 * time.Minute},
		{"15min exact multiple unchanged", 45 * time.Minute, Rounding15Min, 45 * time.Minute},
		{"15min rounds up above midpoint", 52 * time.Minute, Rounding15Min, 45 * time.Minute},
		{"15min 53 minutes rounds to an hour", 53 * time.Minute, Rounding15Min, time.Hour},
		{"30min rounds down", 44 * time.Minute, Rounding30Min, 30 * time.Minute},
		{"30min rounds up at midpoint", 45 * time.Minute, Rounding30Min, time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RoundDuration(tt.d, tt.policy); got != tt.want {
				t.Errorf("RoundDuration(%v, %s) = %v, want %v", tt.d, tt.policy, got, tt.want)
			}
		})
	}
}

func TestRoundDuration_AlwaysMultipleOfIncrement(t *testing.T) {
	for d := time.Duration(0); d <= 3*time.Hour; d += 7 * time.Minute {
		got := RoundDuration(d, Rounding15Min)
		if got%(15*time.Minute) != 0 {
			t.Errorf("RoundDuration(%v) = %v, not a multiple of 15min", d, got)
		}
	}
}

func TestRoundedDuration_StartUntouched(t *testing.T) {
	e := CreateTestEntry(at(9, 7), 22*time.Minute, "Chrome", "Docs", "CLIENTA-100")

	if got := e.RoundedDuration(Rounding15Min); got != 15*time.Minute {
		t.Errorf("RoundedDuration() = %v, want 15m", got)
	}
	// Rounding bills a different duration but never moves the raw span.
	if !e.Start.Equal(at(9, 7)) || !e.End.Equal(at(9, 29)) {
		t.Errorf("entry span moved to %v-%v", e.Start, e.End)
	}
}

func TestRoundedHours(t *testing.T) {
	e := CreateTestEntry(at(9, 0), 50*time.Minute, "Chrome", "Docs", "CLIENTA-100")
	if got := e.RoundedHours(Rounding15Min); got != 0.75 {
		t.Errorf("RoundedHours() = %v, want 0.75", got)
	}
	if got := e.RoundedHours(RoundingNone); got != 50.0/60.0 {
		t.Errorf("RoundedHours(none) = %v, want %v", got, 50.0/60.0)
	}
}

func TestParseRoundingPolicy(t *testing.T) {
	for _, valid := range []string{"none", "15min", "30min"} {
		if _, err := ParseRoundingPolicy(valid); err != nil {
			t.Errorf("ParseRoundingPolicy(%q) error = %v", valid, err)
		}
	}
	for _, invalid := range []string{"", "10min", "hourly", "15"} {
		if _, err := ParseRoundingPolicy(invalid); err == nil {
			t.Errorf("ParseRoundingPolicy(%q) should fail", invalid)
		}
	}
}
