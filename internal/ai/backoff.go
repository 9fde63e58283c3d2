package ai

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/AI-Advenced/GPT-Genius/pkg/llm"
)

// ErrRateLimitExceeded is returned when a model call stays rate-limited past
// both backoff bounds (attempts and cumulative wait).
var ErrRateLimitExceeded = errors.New("rate limit retries exhausted")

// BackoffPolicy retries rate-limited model calls with exponential backoff.
// Two bounds apply, whichever triggers first: a total attempt count and a
// cumulative elapsed-time budget. Any error that is not a rate-limit signal
// propagates immediately without retry.
type BackoffPolicy struct {
	MaxAttempts  int
	MaxElapsed   time.Duration
	InitialDelay time.Duration
	Multiplier   float64
	MaxDelay     time.Duration
}

// DefaultBackoffPolicy returns the policy used for model calls:
// 7 attempts, 45s cumulative budget, 1s initial delay doubling per attempt.
func DefaultBackoffPolicy() *BackoffPolicy {
	return &BackoffPolicy{
		MaxAttempts:  7,
		MaxElapsed:   45 * time.Second,
		InitialDelay: 1 * time.Second,
		Multiplier:   2.0,
		MaxDelay:     16 * time.Second,
	}
}

// NextDelay returns the backoff delay after the given attempt number
// (1-indexed): InitialDelay * Multiplier^(attempt-1), capped at MaxDelay.
func (p *BackoffPolicy) NextDelay(attempt int) time.Duration {
	delay := float64(p.InitialDelay) * math.Pow(p.Multiplier, float64(attempt-1))
	if delay > float64(p.MaxDelay) {
		return p.MaxDelay
	}
	return time.Duration(delay)
}

// Execute runs fn, retrying on rate-limit errors until either bound is hit.
// The elapsed budget is checked before each sleep so the caller is never
// blocked meaningfully past MaxElapsed.
func (p *BackoffPolicy) Execute(ctx context.Context, fn func() error) error {
	start := time.Now()
	var lastErr error

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if !errors.Is(err, llm.ErrRateLimited) {
			return err
		}
		lastErr = err

		if attempt == p.MaxAttempts {
			break
		}
		delay := p.NextDelay(attempt)
		if time.Since(start)+delay > p.MaxElapsed {
			break
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return fmt.Errorf("%w: %v", ErrRateLimitExceeded, lastErr)
}
