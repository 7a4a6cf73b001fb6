package services

import (
	"testing"
	"time"
)

func TestBusinessDayOf(t *testing.T) {
	loc := time.FixedZone("TRT", 3*60*60)
	now := time.Date(2026, 3, 2, 14, 20, 0, 0, loc)

	day := BusinessDayOf(now)

	if want := time.Date(2026, 3, 2, 0, 0, 0, 0, loc); !day.Start.Equal(want) {
		t.Fatalf("Start = %v, want %v", day.Start, want)
	}
	if want := time.Date(2026, 3, 3, 0, 0, 0, 0, loc); !day.End.Equal(want) {
		t.Fatalf("End = %v, want %v", day.End, want)
	}
	if day.Key() != "2026-03-02" {
		t.Fatalf("Key = %q", day.Key())
	}
}

func TestBusinessDay_Contains(t *testing.T) {
	day := BusinessDayOf(time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC))

	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"midnight is inside", day.Start, true},
		{"last nanosecond is inside", day.End.Add(-time.Nanosecond), true},
		{"next midnight is outside", day.End, false},
		{"previous day is outside", day.Start.Add(-time.Second), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := day.Contains(tt.t); got != tt.want {
				t.Fatalf("Contains(%v) = %v, want %v", tt.t, got, tt.want)
			}
		})
	}
}

func TestBusinessDayOf_DST(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// Clocks go forward on 2026-03-29.
	day := BusinessDayOf(time.Date(2026, 3, 29, 12, 0, 0, 0, berlin))
	if got := day.End.Sub(day.Start); got != 23*time.Hour {
		t.Fatalf("DST day length = %v, want 23h", got)
	}
}
