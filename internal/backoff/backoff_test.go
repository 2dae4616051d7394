package backoff

import (
	"testing"
	"time"
)

func TestExponentialDefaults(t *testing.T) {
	var e Exponential

	first := e.Delay(0)
	if first < 100*time.Millisecond {
		t.Errorf("expected at least the default initial delay, got %v", first)
	}
	if first > 200*time.Millisecond {
		t.Errorf("expected jitter bounded by the delay itself, got %v", first)
	}
}

func TestExponentialGrowth(t *testing.T) {
	e := Exponential{Initial: 10 * time.Millisecond, Max: time.Minute, Multiplier: 2}

	for attempt := 1; attempt < 6; attempt++ {
		prev := e.Delay(attempt - 1)
		next := e.Delay(attempt)
		if next < prev {
			t.Errorf("delay must not shrink without jitter: attempt %d: %v then %v", attempt, prev, next)
		}
	}
}

func TestExponentialCappedAtMax(t *testing.T) {
	e := Exponential{Initial: time.Second, Max: 5 * time.Second, Multiplier: 10, Jitter: 1}

	for attempt := 0; attempt < 40; attempt++ {
		if d := e.Delay(attempt); d > 5*time.Second {
			t.Fatalf("delay %v exceeds max at attempt %d", d, attempt)
		}
	}
}

func TestExponentialNegativeAttempt(t *testing.T) {
	e := Exponential{Initial: 10 * time.Millisecond, Max: time.Second, Multiplier: 2}
	if d := e.Delay(-5); d < 10*time.Millisecond {
		t.Errorf("negative attempts clamp to zero, got %v", d)
	}
}

func TestJitterClamped(t *testing.T) {
	e := Exponential{Initial: 10 * time.Millisecond, Max: time.Second, Multiplier: 2, Jitter: 5}
	// Jitter above 1 behaves as 1: the delay stays within [base, max].
	for i := 0; i < 50; i++ {
		if d := e.Delay(0); d < 10*time.Millisecond || d > time.Second {
			t.Fatalf("delay %v out of bounds", d)
		}
	}
}
