package db

import (
	"context"
	"fmt"
	"io"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/taxiload/internal/schema"
	"github.com/vvka-141/taxiload/pkg/taxiload"
)

// PostgresDestination writes batches to PostgreSQL with COPY.
type PostgresDestination struct {
	pool   *pgxpool.Pool
	closer io.Closer
}

// NewPostgresDestination wraps an open pool. The destination owns the pool.
func NewPostgresDestination(pool *pgxpool.Pool) *PostgresDestination {
	return &PostgresDestination{pool: pool}
}

// OpenPostgres connects with connector and returns a destination that also
// releases the connector on Close when it holds resources of its own.
func OpenPostgres(ctx context.Context, connector taxiload.Connector) (*PostgresDestination, error) {
	pool, err := connector.Connect(ctx)
	if err != nil {
		return nil, err
	}
	d := NewPostgresDestination(pool)
	if c, ok := connector.(io.Closer); ok {
		d.closer = c
	}
	return d, nil
}

// CreateOrReplace drops table if present and creates it from s in one transaction.
func (d *PostgresDestination) CreateOrReplace(ctx context.Context, table string, s *schema.Schema) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w: %w", err, taxiload.ErrDestinationWrite)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, schema.DropTableSQL(schema.Postgres, table)); err != nil {
		return fmt.Errorf("failed to drop table %s: %w: %w", table, err, taxiload.ErrDestinationWrite)
	}
	if _, err := tx.Exec(ctx, schema.CreateTableSQL(schema.Postgres, table, s)); err != nil {
		return fmt.Errorf("failed to create table %s: %w: %w", table, err, taxiload.ErrDestinationWrite)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit table %s: %w: %w", table, err, taxiload.ErrDestinationWrite)
	}
	return nil
}

// Append copies rows into table. A single COPY either lands every row or none.
func (d *PostgresDestination) Append(ctx context.Context, table string, s *schema.Schema, rows []schema.Row) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	n, err := d.pool.CopyFrom(
		ctx,
		pgx.Identifier{table},
		s.Names(),
		pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			return rows[i], nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to copy %d rows into %s: %w: %w", len(rows), table, err, taxiload.ErrDestinationWrite)
	}
	return n, nil
}

// Close closes the pool, then the connector if it needs closing.
func (d *PostgresDestination) Close() error {
	d.pool.Close()
	if d.closer == nil {
		return nil
	}
	if err := d.closer.Close(); err != nil {
		return fmt.Errorf("failed to release connector: %w", err)
	}
	return nil
}
