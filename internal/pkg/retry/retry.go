// Package retry runs a unit of work under a bounded exponential backoff policy.
package retry

import (
	"context"
	"math"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy describes how many times an operation is attempted and how long to
// wait between attempts. The first wait is Delay; every later wait is the
// previous one multiplied by Backoff.
type Policy struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	Delay       time.Duration `mapstructure:"delay"`
	Backoff     float64       `mapstructure:"backoff"`
}

// DefaultPolicy returns two attempts with a 4s wait that grows by a factor of 4.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 2,
		Delay:       4 * time.Second,
		Backoff:     4,
	}
}

// Notify is called before each wait with the 1-based attempt that just failed.
type Notify func(attempt int, err error, wait time.Duration)

// Timer is the wait primitive used between attempts.
type Timer = backoff.Timer

type options struct {
	notify Notify
	timer  Timer
}

// Option configures a single Do call
type Option func(*options)

// WithNotify registers a callback invoked before every wait.
func WithNotify(fn Notify) Option {
	return func(o *options) {
		o.notify = fn
	}
}

// WithTimer replaces the real-time wait, mostly for tests.
func WithTimer(t Timer) Option {
	return func(o *options) {
		o.timer = t
	}
}

// Permanent marks err so Do returns it immediately without retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return backoff.Permanent(err)
}

// Do runs op until it succeeds, returns a permanent error, the policy is
// exhausted, or ctx is done. The last error from op is returned.
func Do(ctx context.Context, p Policy, op func(ctx context.Context) error, opts ...Option) error {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	attempt := 0
	operation := func() error {
		attempt++
		return op(ctx)
	}

	var notify backoff.Notify
	if o.notify != nil {
		notify = func(err error, wait time.Duration) {
			o.notify(attempt, err, wait)
		}
	}

	b := backoff.WithContext(p.backOff(), ctx)
	if o.timer != nil {
		return backoff.RetryNotifyWithTimer(operation, b, notify, o.timer)
	}
	return backoff.RetryNotify(operation, b, notify)
}

func (p Policy) backOff() backoff.BackOff {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	multiplier := p.Backoff
	if multiplier < 1 {
		multiplier = 1
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = p.Delay
	eb.Multiplier = multiplier
	eb.RandomizationFactor = 0
	eb.MaxInterval = time.Duration(math.MaxInt64)
	eb.MaxElapsedTime = 0
	eb.Reset()

	return backoff.WithMaxRetries(eb, uint64(attempts-1))
}
