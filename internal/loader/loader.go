package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/vvka-141/taxiload/internal/schema"
	"github.com/vvka-141/taxiload/internal/source"
	"github.com/vvka-141/taxiload/pkg/taxiload"
)

// Destination is a table store that can be reset and appended to.
type Destination interface {
	// CreateOrReplace drops table if it exists and creates it empty from s.
	CreateOrReplace(ctx context.Context, table string, s *schema.Schema) error
	// Append writes rows atomically and returns how many were written.
	Append(ctx context.Context, table string, s *schema.Schema, rows []schema.Row) (int64, error)
	Close() error
}

// DestinationFunc opens the destination. It is called once the source is open,
// so a bad table name or an unreachable file never touches the database.
type DestinationFunc func(ctx context.Context) (Destination, error)

// Opener opens a source location.
type Opener interface {
	Open(ctx context.Context, location string) (*source.Stream, error)
}

// Job describes one ingestion.
type Job struct {
	Table     string
	BatchSize int
	URLPrefix string
	// Source replaces the URL derived from Table and URLPrefix when set.
	Source string
}

// Result summarizes a finished ingestion.
type Result struct {
	Table    string
	URL      string
	Batches  int
	Rows     int64
	Duration time.Duration
}

// Loader runs jobs. Safe to reuse, not for concurrent Run calls.
type Loader struct {
	opener   Opener
	open     DestinationFunc
	progress Progress
	logger   taxiload.Logger
	schema   *schema.Schema
}

// New returns a Loader for the yellow taxi trip schema.
func New(opener Opener, open DestinationFunc, progress Progress, logger taxiload.Logger) *Loader {
	if progress == nil {
		progress = NopProgress{}
	}
	return &Loader{
		opener:   opener,
		open:     open,
		progress: progress,
		logger:   logger,
		schema:   schema.Trips(),
	}
}

// Run ingests job and reports progress along the way.
func (l *Loader) Run(ctx context.Context, job Job) (Result, error) {
	result, err := l.run(ctx, job)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			err = fmt.Errorf("%w (%w)", ctxErr, err)
		}
		l.progress.Fail(err)
		return result, err
	}
	l.progress.Done(result)
	return result, nil
}

func (l *Loader) run(ctx context.Context, job Job) (Result, error) {
	start := time.Now()

	period, err := source.ParseTableName(job.Table)
	if err != nil {
		return Result{}, err
	}

	location := job.Source
	if location == "" {
		location = source.URL(job.URLPrefix, period)
	}
	result := Result{Table: job.Table, URL: location}

	l.logger.Verbose("Loading %s (%s) from %s", job.Table, period, location)
	l.progress.Start(job.Table, location)

	stream, err := l.opener.Open(ctx, location)
	if err != nil {
		return result, err
	}
	defer stream.Close()

	dest, err := l.open(ctx)
	if err != nil {
		return result, err
	}
	defer func() {
		if err := dest.Close(); err != nil {
			l.logger.Error("Failed to close destination: %v", err)
		}
	}()

	reader := source.NewBatchReader(stream, l.schema, job.BatchSize)

	for {
		batchStart := time.Now()

		batch, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return result, err
		}

		if batch.Index == 0 {
			if extra := reader.ExtraColumns(); len(extra) > 0 {
				l.logger.Verbose("Ignoring columns not in the schema: %v", extra)
			}
			if err := dest.CreateOrReplace(ctx, job.Table, l.schema); err != nil {
				return result, err
			}
			l.logger.Info("Table %s created", job.Table)
		}

		n, err := dest.Append(ctx, job.Table, l.schema, batch.Rows)
		if err != nil {
			return result, fmt.Errorf("batch %d: %w", batch.Index+1, err)
		}

		result.Batches++
		result.Rows += n
		l.progress.Batch(BatchStats{
			Index:      batch.Index,
			Rows:       n,
			TotalRows:  result.Rows,
			BytesRead:  stream.BytesRead(),
			TotalBytes: stream.Size,
			Took:       time.Since(batchStart),
		})

		if err := ctx.Err(); err != nil {
			return result, err
		}
	}

	result.Duration = time.Since(start)
	return result, nil
}
