package schema

import (
	"fmt"
	"strings"
)

// Dialect maps semantic types to column types of a SQL engine.
type Dialect interface {
	// ColumnType returns the SQL type for t.
	ColumnType(t Type) string
	// QuoteIdent quotes an identifier.
	QuoteIdent(name string) string
}

// Postgres is the PostgreSQL dialect.
var Postgres Dialect = postgresDialect{}

// SQLite is the SQLite dialect.
var SQLite Dialect = sqliteDialect{}

type postgresDialect struct{}

func (postgresDialect) ColumnType(t Type) string {
	switch t {
	case Int64:
		return "BIGINT"
	case Float64:
		return "DOUBLE PRECISION"
	case Timestamp:
		return "TIMESTAMP"
	default:
		return "TEXT"
	}
}

func (postgresDialect) QuoteIdent(name string) string {
	return quoteDouble(name)
}

type sqliteDialect struct{}

func (sqliteDialect) ColumnType(t Type) string {
	switch t {
	case Int64:
		return "INTEGER"
	case Float64:
		return "REAL"
	case Timestamp:
		return "TIMESTAMP"
	default:
		return "TEXT"
	}
}

func (sqliteDialect) QuoteIdent(name string) string {
	return quoteDouble(name)
}

func quoteDouble(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// CreateTableSQL renders a CREATE TABLE statement for the schema.
func CreateTableSQL(d Dialect, table string, s *Schema) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s (\n", d.QuoteIdent(table))
	for i, c := range s.columns {
		fmt.Fprintf(&b, "  %s %s", d.QuoteIdent(c.Name), d.ColumnType(c.Type))
		if i < len(s.columns)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(")")
	return b.String()
}

// DropTableSQL renders a DROP TABLE IF EXISTS statement.
func DropTableSQL(d Dialect, table string) string {
	return "DROP TABLE IF EXISTS " + d.QuoteIdent(table)
}
