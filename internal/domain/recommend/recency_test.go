package recommend

import (
	"testing"
	"time"
)

func TestRecencyScore_NilTimestamp(t *testing.T) {
	if got := RecencyScore(nil, time.Now()); got != 0.0 {
		t.Fatalf("expected 0.0 for nil publish time, got %v", got)
	}
}

func TestRecencyScore_Decay(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		days float64
		want float64
	}{
		{days: 0, want: 1.0},
		{days: 15, want: 0.5},
		{days: 30, want: 0.0},
		{days: 45, want: 0.0},
	}

	for _, tc := range cases {
		published := now.Add(-time.Duration(tc.days*24) * time.Hour)
		got := RecencyScore(&published, now)
		if diff := got - tc.want; diff > 1e-9 || diff < -1e-9 {
			t.Fatalf("days=%v: expected %v, got %v", tc.days, tc.want, got)
		}
	}
}

func TestRecencyScore_MonotonicallyNonIncreasing(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	prev := 2.0
	for days := 0; days <= 60; days += 5 {
		published := now.Add(-time.Duration(days) * 24 * time.Hour)
		got := RecencyScore(&published, now)
		if got > prev {
			t.Fatalf("score increased at days=%d: %v > %v", days, got, prev)
		}
		if got < 0 {
			t.Fatalf("score went negative at days=%d: %v", days, got)
		}
		prev = got
	}
}

func TestRecencyScore_FuturePublishClampedToNow(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	published := now.Add(24 * time.Hour)
	if got := RecencyScore(&published, now); got != 1.0 {
		t.Fatalf("expected 1.0 for future publish time, got %v", got)
	}
}
