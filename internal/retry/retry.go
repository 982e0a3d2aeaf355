// Package retry runs operations with bounded attempts and exponential backoff.
package retry

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/eshaffer321/hilink-go/internal/types"
)

const (
	// DefaultMaxAttempts is the default number of attempts per operation
	DefaultMaxAttempts = 3

	// DefaultInitialDelay is the delay before the second attempt
	DefaultInitialDelay = 500 * time.Millisecond

	// DefaultMaxDelay caps the delay between attempts
	DefaultMaxDelay = 30 * time.Second

	// DefaultMultiplier is the backoff growth factor
	DefaultMultiplier = 2.0

	jitterLow  = 0.75
	jitterSpan = 0.5
)

// Policy configures retry behavior. Build it with NewPolicy or DefaultPolicy;
// it is not modified after construction.
type Policy struct {
	MaxAttempts       int           `json:"maxAttempts" yaml:"max_attempts"`
	InitialDelay      time.Duration `json:"initialDelay" yaml:"initial_delay"`
	MaxDelay          time.Duration `json:"maxDelay" yaml:"max_delay"`
	BackoffMultiplier float64       `json:"backoffMultiplier" yaml:"backoff_multiplier"`
	Jitter            bool          `json:"jitter" yaml:"jitter"`
}

// DefaultPolicy returns three attempts, 500ms growing by 2x up to 30s, with jitter.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:       DefaultMaxAttempts,
		InitialDelay:      DefaultInitialDelay,
		MaxDelay:          DefaultMaxDelay,
		BackoffMultiplier: DefaultMultiplier,
		Jitter:            true,
	}
}

// NewPolicy validates and returns a policy.
func NewPolicy(maxAttempts int, initialDelay, maxDelay time.Duration, multiplier float64, jitter bool) (Policy, error) {
	p := Policy{
		MaxAttempts:       maxAttempts,
		InitialDelay:      initialDelay,
		MaxDelay:          maxDelay,
		BackoffMultiplier: multiplier,
		Jitter:            jitter,
	}
	return p, p.Validate()
}

// Validate reports a config error for policies the engine cannot run.
func (p Policy) Validate() error {
	switch {
	case p.MaxAttempts < 1:
		return types.NewConfigError("max attempts must be at least 1, got %d", p.MaxAttempts)
	case p.InitialDelay < 0:
		return types.NewConfigError("initial delay must not be negative, got %s", p.InitialDelay)
	case p.InitialDelay > 0 && p.InitialDelay < time.Millisecond:
		// delays are computed in whole milliseconds
		return types.NewConfigError("initial delay must be zero or at least 1ms, got %s", p.InitialDelay)
	case p.MaxDelay < p.InitialDelay:
		return types.NewConfigError("max delay %s is below initial delay %s", p.MaxDelay, p.InitialDelay)
	case p.BackoffMultiplier <= 1.0:
		return types.NewConfigError("backoff multiplier must be greater than 1.0, got %g", p.BackoffMultiplier)
	}
	return nil
}

// BaseDelay is min(MaxDelay, InitialDelay * BackoffMultiplier^attempt),
// truncated to whole milliseconds.
func (p Policy) BaseDelay(attempt int) time.Duration {
	ms := float64(p.InitialDelay.Milliseconds()) * math.Pow(p.BackoffMultiplier, float64(attempt))
	maxMs := float64(p.MaxDelay.Milliseconds())
	if ms > maxMs || math.IsInf(ms, 0) || math.IsNaN(ms) {
		ms = maxMs
	}
	return time.Duration(int64(ms)) * time.Millisecond
}

// Delay returns the wait after the given zero-based attempt. factor is the
// jitter multiplier in [0.75, 1.25] and is ignored when jitter is off.
//
// Jitter is applied to the base delay and the result is capped at MaxDelay
// again, so the wait never exceeds MaxDelay. Older clients capped before
// jittering and could wait up to 1.25x MaxDelay.
func (p Policy) Delay(attempt int, factor float64) time.Duration {
	base := p.BaseDelay(attempt)
	if !p.Jitter {
		return base
	}
	ms := float64(base.Milliseconds()) * factor
	d := time.Duration(int64(ms)) * time.Millisecond
	if d > p.MaxDelay {
		d = p.MaxDelay
	}
	return d
}

// Engine executes operations under a Policy.
type Engine struct {
	policy Policy
	logger types.Logger

	// seams for tests
	sleep  func(ctx context.Context, d time.Duration) error
	jitter func() float64
}

// Option customizes an Engine.
type Option func(*Engine)

// WithLogger logs each retry decision.
func WithLogger(l types.Logger) Option {
	return func(e *Engine) { e.logger = types.LoggerOrNop(l) }
}

// WithSleep replaces the cancellable sleep.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(e *Engine) { e.sleep = sleep }
}

// WithJitterSource replaces the random jitter factor source.
func WithJitterSource(f func() float64) Option {
	return func(e *Engine) { e.jitter = f }
}

// New returns an engine for a validated policy.
func New(policy Policy, opts ...Option) (*Engine, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		policy: policy,
		logger: types.NopLogger{},
		sleep:  Sleep,
		jitter: func() float64 { return jitterLow + rand.Float64()*jitterSpan },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Policy returns the engine's policy.
func (e *Engine) Policy() Policy {
	return e.policy
}

// Run executes op until it succeeds, fails with an error not marked retryable,
// or runs out of attempts. The last error is returned unchanged.
func (e *Engine) Run(ctx context.Context, op func(ctx context.Context) error) error {
	_, err := Do(ctx, e, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}

// Do is the generic form of Engine.Run.
func Do[T any](ctx context.Context, e *Engine, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := range e.policy.MaxAttempts {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !types.IsRetryable(err) {
			return zero, err
		}
		if attempt == e.policy.MaxAttempts-1 {
			break
		}

		delay := e.policy.Delay(attempt, e.jitter())
		e.logger.Debug("retrying after error",
			"attempt", attempt+1,
			"max_attempts", e.policy.MaxAttempts,
			"delay", delay,
			"error", err)

		if err := e.sleep(ctx, delay); err != nil {
			return zero, err
		}
	}

	e.logger.Warn("retries exhausted", "attempts", e.policy.MaxAttempts, "error", lastErr)
	return zero, lastErr
}

// Sleep waits for d or until ctx is done, whichever comes first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
