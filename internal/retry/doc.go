// Package retry retries connection establishment with exponential backoff.
//
// Only opening a database connection is retried. Batch writes and source
// reads are never passed through an Executor: a failed batch ends the run.
//
//	executor := retry.NewExecutor(
//	    retry.NewPostgreSQLErrorClassifier(),
//	    retry.NewExponentialBackoff(3),
//	)
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return pool.Ping(ctx)
//	})
package retry
