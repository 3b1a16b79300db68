package model

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/hupe1980/severn/core"
	"github.com/hupe1980/severn/logging"
)

// RetryOptions configures WithRetry.
type RetryOptions struct {
	// MaxTries caps the number of attempts including the first one.
	MaxTries uint
	// InitialInterval is the first backoff delay.
	InitialInterval time.Duration
	// MaxInterval caps a single backoff delay.
	MaxInterval time.Duration
	// MaxElapsedTime bounds the total time spent retrying.
	MaxElapsedTime time.Duration
	// Logger receives one warning per failed attempt.
	Logger logging.Logger
}

// DefaultRetryOptions returns the retry policy used when no overrides are given.
func DefaultRetryOptions() RetryOptions {
	return RetryOptions{
		MaxTries:        3,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     10 * time.Second,
		MaxElapsedTime:  time.Minute,
		Logger:          logging.NoOpLogger{},
	}
}

type retryBackend struct {
	next Backend
	opts RetryOptions
}

// WithRetry decorates next with exponential backoff. Only errors of
// core.KindBackend are retried; every other failure (empty response,
// serialization, cancellation) is returned after the first attempt.
func WithRetry(next Backend, optFns ...func(o *RetryOptions)) Backend {
	opts := DefaultRetryOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &retryBackend{next: next, opts: opts}
}

// Prompt implements Backend.
func (r *retryBackend) Prompt(ctx context.Context, prompt, data string, agent core.Agent) (string, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = r.opts.InitialInterval
	bo.MaxInterval = r.opts.MaxInterval

	operation := func() (string, error) {
		out, err := r.next.Prompt(ctx, prompt, data, agent)
		if err != nil && core.KindOf(err) != core.KindBackend {
			return "", backoff.Permanent(err)
		}
		return out, err
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(r.opts.MaxTries),
		backoff.WithMaxElapsedTime(r.opts.MaxElapsedTime),
		backoff.WithNotify(func(err error, next time.Duration) {
			r.opts.Logger.Warn("Backend call failed, retrying",
				"agent", agent.Name(),
				"error", err,
				"backoff", next,
			)
		}),
	)
}

// Info implements Describer when the wrapped backend does.
func (r *retryBackend) Info() Info {
	if d, ok := r.next.(Describer); ok {
		return d.Info()
	}
	return Info{}
}
