package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/taxiload/internal/logging"
)

var errTransient = &pgconn.PgError{Code: "08006", Message: "connection failure"}

// flakyOperation fails with err for the first failures calls, then succeeds.
type flakyOperation struct {
	calls    int
	failures int
	err      error
}

func (f *flakyOperation) run(context.Context) error {
	f.calls++
	if f.calls <= f.failures {
		return f.err
	}
	return nil
}

func fastBackoff(maxAttempts int) *ExponentialBackoff {
	return NewExponentialBackoff(maxAttempts, WithInitialDelay(time.Millisecond), WithJitter(0))
}

func TestExecutor_SucceedsFirstTime(t *testing.T) {
	op := &flakyOperation{}
	err := NewExecutor(NewPostgreSQLErrorClassifier(), fastBackoff(3)).Execute(context.Background(), op.run)

	require.NoError(t, err)
	assert.Equal(t, 1, op.calls)
}

func TestExecutor_RetriesTransientErrors(t *testing.T) {
	op := &flakyOperation{failures: 2, err: errTransient}

	var retries []int
	e := NewExecutor(NewPostgreSQLErrorClassifier(), fastBackoff(3)).
		WithOnRetry(func(attempt int, err error, delay time.Duration) {
			retries = append(retries, attempt)
			assert.ErrorIs(t, err, errTransient)
		})

	require.NoError(t, e.Execute(context.Background(), op.run))
	assert.Equal(t, 3, op.calls)
	assert.Equal(t, []int{0, 1}, retries)
}

func TestExecutor_GivesUpAfterMaxAttempts(t *testing.T) {
	op := &flakyOperation{failures: 10, err: errTransient}
	err := NewExecutor(NewPostgreSQLErrorClassifier(), fastBackoff(2)).Execute(context.Background(), op.run)

	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 3, op.calls)
}

func TestExecutor_ZeroAttemptsMeansNoRetry(t *testing.T) {
	op := &flakyOperation{failures: 10, err: errTransient}
	err := NewExecutor(NewPostgreSQLErrorClassifier(), fastBackoff(0)).Execute(context.Background(), op.run)

	assert.Error(t, err)
	assert.Equal(t, 1, op.calls)
}

func TestExecutor_FatalErrorStopsImmediately(t *testing.T) {
	fatal := &pgconn.PgError{Code: "28P01", Message: "password authentication failed"}
	op := &flakyOperation{failures: 10, err: fatal}
	err := NewExecutor(NewPostgreSQLErrorClassifier(), fastBackoff(5)).Execute(context.Background(), op.run)

	assert.ErrorIs(t, err, fatal)
	assert.Equal(t, 1, op.calls)
}

func TestExecutor_ContextCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	strategy := NewExponentialBackoff(5, WithInitialDelay(time.Hour), WithMaxDelay(time.Hour), WithJitter(0))

	e := NewExecutor(NewPostgreSQLErrorClassifier(), strategy).
		WithOnRetry(func(int, error, time.Duration) { cancel() })

	op := &flakyOperation{failures: 10, err: errTransient}
	err := e.Execute(ctx, op.run)

	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 1, op.calls)
}

func TestExecutor_WithOnRetryLeavesOriginalUntouched(t *testing.T) {
	base := NewExecutor(NewPostgreSQLErrorClassifier(), fastBackoff(1))
	configured := base.WithOnRetry(func(int, error, time.Duration) {})

	assert.Nil(t, base.onRetry)
	assert.NotNil(t, configured.onRetry)
}

func TestNewExecutor_PanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { NewExecutor(nil, fastBackoff(1)) })
	assert.Panics(t, func() { NewExecutor(NewPostgreSQLErrorClassifier(), nil) })
}

func TestNewConnectionExecutor(t *testing.T) {
	e := NewConnectionExecutor(logging.NewNullLogger())
	assert.NotNil(t, e.onRetry)
	assert.Equal(t, 3, e.strategy.MaxAttempts())

	assert.Nil(t, NewConnectionExecutor(nil).onRetry)
}
