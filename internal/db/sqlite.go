package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/vvka-141/taxiload/internal/schema"
	"github.com/vvka-141/taxiload/pkg/taxiload"
	_ "modernc.org/sqlite"
)

// SQLiteDestination writes batches to a SQLite database file.
type SQLiteDestination struct {
	conn *sql.DB
}

// OpenSQLite opens (or creates) the SQLite database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteDestination, error) {
	conn, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w: %w", path, err, taxiload.ErrDestinationWrite)
	}
	// SQLite allows one writer.
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("open sqlite %s: %w: %w", path, err, taxiload.ErrDestinationWrite)
	}
	return &SQLiteDestination{conn: conn}, nil
}

// sqliteDSN appends the busy timeout pragma, keeping any query the caller
// already put on path (for example file:trips.db?mode=rwc).
func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=busy_timeout(5000)"
}

// Conn exposes the underlying database, for inspection.
func (d *SQLiteDestination) Conn() *sql.DB {
	return d.conn
}

// CreateOrReplace drops table if present and creates it from s in one transaction.
func (d *SQLiteDestination) CreateOrReplace(ctx context.Context, table string, s *schema.Schema) error {
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w: %w", err, taxiload.ErrDestinationWrite)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, schema.DropTableSQL(schema.SQLite, table)); err != nil {
		return fmt.Errorf("failed to drop table %s: %w: %w", table, err, taxiload.ErrDestinationWrite)
	}
	if _, err := tx.ExecContext(ctx, schema.CreateTableSQL(schema.SQLite, table, s)); err != nil {
		return fmt.Errorf("failed to create table %s: %w: %w", table, err, taxiload.ErrDestinationWrite)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit table %s: %w: %w", table, err, taxiload.ErrDestinationWrite)
	}
	return nil
}

// Append inserts rows into table inside one transaction.
func (d *SQLiteDestination) Append(ctx context.Context, table string, s *schema.Schema, rows []schema.Row) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w: %w", err, taxiload.ErrDestinationWrite)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertSQL(table, s))
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert into %s: %w: %w", table, err, taxiload.ErrDestinationWrite)
	}
	defer stmt.Close()

	for i, row := range rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return 0, fmt.Errorf("failed to insert row %d into %s: %w: %w", i, table, err, taxiload.ErrDestinationWrite)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit batch into %s: %w: %w", table, err, taxiload.ErrDestinationWrite)
	}
	return int64(len(rows)), nil
}

// Close closes the database.
func (d *SQLiteDestination) Close() error {
	return d.conn.Close()
}

func insertSQL(table string, s *schema.Schema) string {
	names := s.Names()
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = schema.SQLite.QuoteIdent(name)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(names)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		schema.SQLite.QuoteIdent(table), strings.Join(quoted, ", "), placeholders)
}
