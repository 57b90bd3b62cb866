package dating

import (
	"testing"
	"time"
)

var refNow = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

func TestPlausible_Bounds(t *testing.T) {
	tests := []struct {
		when time.Time
		want bool
	}{
		{day(1969, time.December, 31), false},
		{day(1971, time.March, 2), true},
		{day(2026, time.December, 31), true},
		{day(2027, time.January, 1), false},
	}
	for _, tt := range tests {
		if got := Plausible(tt.when, refNow); got != tt.want {
			t.Errorf("Plausible(%v) = %v, expected %v", tt.when, got, tt.want)
		}
	}
}

func TestPlausible_SentinelsIgnoreTimeOfDay(t *testing.T) {
	for _, s := range sentinelDates {
		when := time.Date(s.year, s.month, s.day, 13, 45, 10, 0, time.UTC)
		if Plausible(when, refNow) {
			t.Errorf("Expected sentinel %v to be rejected", when)
		}
	}
	if !Plausible(day(2000, time.January, 2), refNow) {
		t.Error("Expected the day after a sentinel to be accepted")
	}
}

func TestPlausible_UsesReferenceInstant(t *testing.T) {
	when := day(2031, time.May, 5)
	if Plausible(when, refNow) {
		t.Error("Expected 2031 to be rejected with a 2025 reference")
	}
	if !Plausible(when, day(2030, time.January, 1)) {
		t.Error("Expected 2031 to be accepted with a 2030 reference")
	}
}
