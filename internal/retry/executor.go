package retry

import (
	"context"
	"time"

	"github.com/vvka-141/taxiload/pkg/taxiload"
)

// Executor runs an operation, retrying transient failures with backoff.
// Execute is safe for concurrent use.
type Executor struct {
	classifier taxiload.ErrorClassifier
	strategy   taxiload.BackoffStrategy
	onRetry    func(attempt int, err error, delay time.Duration)
}

// NewExecutor returns an Executor. Panics if classifier or strategy is nil.
func NewExecutor(classifier taxiload.ErrorClassifier, strategy taxiload.BackoffStrategy) *Executor {
	if classifier == nil {
		panic("classifier cannot be nil")
	}
	if strategy == nil {
		panic("strategy cannot be nil")
	}
	return &Executor{classifier: classifier, strategy: strategy}
}

// NewConnectionExecutor returns the Executor used for connection establishment,
// logging each retry at verbose level.
func NewConnectionExecutor(logger taxiload.Logger) *Executor {
	e := NewExecutor(
		NewPostgreSQLErrorClassifier(),
		NewExponentialBackoff(taxiload.DefaultRetryMaxAttempts,
			WithInitialDelay(taxiload.DefaultRetryInitialDelay),
			WithMaxDelay(taxiload.DefaultRetryMaxDelay),
		),
	)
	if logger == nil {
		return e
	}
	return e.WithOnRetry(func(attempt int, err error, delay time.Duration) {
		logger.Verbose("Connection attempt failed (%v), retry %d in %s", err, attempt+1, delay.Round(time.Millisecond))
	})
}

// WithOnRetry returns a copy of the Executor that calls fn before each retry.
func (e *Executor) WithOnRetry(fn func(attempt int, err error, delay time.Duration)) *Executor {
	clone := *e
	clone.onRetry = fn
	return &clone
}

// Execute runs operation until it succeeds, fails with a non-transient error,
// exhausts the strategy's retries, or ctx is done. It returns the last error.
func (e *Executor) Execute(ctx context.Context, operation func(ctx context.Context) error) error {
	err := operation(ctx)
	maxAttempts := e.strategy.MaxAttempts()

	for attempt := 0; err != nil && e.classifier.IsTransient(err); attempt++ {
		if maxAttempts >= 0 && attempt >= maxAttempts {
			break
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		delay := e.strategy.NextDelay(attempt)
		if e.onRetry != nil {
			e.onRetry(attempt, err, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		err = operation(ctx)
	}
	return err
}
