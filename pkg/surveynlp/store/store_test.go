package store

import (
	"testing"
	"time"
)

func TestIDSourceSortsByTime(t *testing.T) {
	ids := NewIDSource()
	t0 := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	first := ids.Next(t0)
	second := ids.Next(t0)
	later := ids.Next(t0.Add(time.Second))

	if len(first) != 26 {
		t.Fatalf("expected 26-char id, got %q", first)
	}
	if !(first < second && second < later) {
		t.Fatalf("ids not monotonic: %s %s %s", first, second, later)
	}
}
