// Package backoff provides delay calculation for transport retries.
package backoff

import (
	"math/rand"
	"time"
)

// Strategy computes the delay before the next retry attempt.
type Strategy interface {
	Delay(attempt int) time.Duration
}

// Exponential implements exponential backoff with uniform jitter. The zero
// value is usable: unset fields fall back to sensible defaults.
type Exponential struct {
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
	// Jitter is the fraction of the computed delay added at random,
	// clamped to [0,1].
	Jitter float64
}

// Delay implements Strategy.
func (e Exponential) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	// Cap the exponent to avoid overflow.
	if attempt > 30 {
		attempt = 30
	}

	initial := e.Initial
	if initial <= 0 {
		initial = 100 * time.Millisecond
	}
	max := e.Max
	if max <= 0 {
		max = 10 * time.Second
	}
	multiplier := e.Multiplier
	if multiplier <= 0 {
		multiplier = 2.0
	}

	delay := time.Duration(float64(initial) * pow(multiplier, attempt))
	if delay < 0 || delay > max {
		delay = max
	}

	jitter := e.Jitter
	if jitter < 0 {
		jitter = 0
	}
	if jitter > 1 {
		jitter = 1
	}
	if jitter > 0 {
		extra := time.Duration(float64(delay) * jitter * rand.Float64())
		if delay+extra > max {
			delay = max
		} else {
			delay += extra
		}
	}
	return delay
}

func pow(base float64, exponent int) float64 {
	result := 1.0
	for i := 0; i < exponent; i++ {
		result *= base
	}
	return result
}
