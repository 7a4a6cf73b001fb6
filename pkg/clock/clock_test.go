package clock

import (
	"testing"
	"time"
)

func TestNewFixed(t *testing.T) {
	loc := time.FixedZone("TRT", 3*60*60)
	at := time.Date(2025, 3, 14, 21, 59, 0, 0, loc)

	c := NewFixed(at)
	if !c.Now().Equal(at) {
		t.Fatalf("expected %v, got %v", at, c.Now())
	}
	if c.Now().Location() != loc {
		t.Fatalf("expected location %v, got %v", loc, c.Now().Location())
	}
}

func TestNewSystem(t *testing.T) {
	t.Run("uses given location", func(t *testing.T) {
		loc := time.FixedZone("TRT", 3*60*60)
		now := NewSystem(loc).Now()
		if now.Location() != loc {
			t.Fatalf("expected location %v, got %v", loc, now.Location())
		}
	})

	t.Run("nil location falls back to local", func(t *testing.T) {
		before := time.Now()
		now := NewSystem(nil).Now()
		if now.Location() != time.Local {
			t.Fatalf("expected time.Local, got %v", now.Location())
		}
		if now.Before(before) {
			t.Fatalf("clock went backwards: %v < %v", now, before)
		}
	})
}
