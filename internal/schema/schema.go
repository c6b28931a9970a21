package schema

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"
)

// Type is the semantic type of a column.
type Type int

const (
	Int64     Type = iota // nullable 64-bit integer
	Float64               // 64-bit float
	Text                  // text
	Timestamp             // timestamp without time zone
)

// String returns the name of the type.
func (t Type) String() string {
	switch t {
	case Int64:
		return "int64"
	case Float64:
		return "float64"
	case Text:
		return "text"
	case Timestamp:
		return "timestamp"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// timestampLayouts are tried in order when parsing Timestamp cells.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
}

// Parse converts a raw cell into a value of the column type.
// An empty cell yields nil (SQL NULL) for every type.
func (t Type) Parse(raw string) (any, error) {
	if raw == "" {
		return nil, nil
	}

	switch t {
	case Int64:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err == nil {
			return v, nil
		}
		if errors.Is(err, strconv.ErrRange) {
			return nil, fmt.Errorf("integer out of range: %q", raw)
		}
		// Integral floats such as "1.0" show up in some months.
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || f != math.Trunc(f) {
			return nil, fmt.Errorf("not an integer: %q", raw)
		}
		// float64(math.MaxInt64) rounds up to 2^63, which is already out of range.
		if f < math.MinInt64 || f >= math.MaxInt64 {
			return nil, fmt.Errorf("integer out of range: %q", raw)
		}
		return int64(f), nil
	case Float64:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("not a float: %q", raw)
		}
		return v, nil
	case Text:
		return raw, nil
	case Timestamp:
		for _, layout := range timestampLayouts {
			if ts, err := time.Parse(layout, raw); err == nil {
				// Offsets are folded into UTC so every destination stores the same wall clock.
				return ts.UTC(), nil
			}
		}
		return nil, fmt.Errorf("not a timestamp: %q", raw)
	default:
		return nil, fmt.Errorf("unknown column type %v", t)
	}
}

// Column is a named, typed column.
type Column struct {
	Name string
	Type Type
}

// Schema is an ordered list of columns.
type Schema struct {
	columns []Column
}

// New builds a schema from columns in order. Column names must be unique.
func New(columns ...Column) (*Schema, error) {
	seen := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		if c.Name == "" {
			return nil, fmt.Errorf("column name cannot be empty")
		}
		if _, dup := seen[c.Name]; dup {
			return nil, fmt.Errorf("duplicate column %q", c.Name)
		}
		seen[c.Name] = struct{}{}
	}
	cols := make([]Column, len(columns))
	copy(cols, columns)
	return &Schema{columns: cols}, nil
}

// Columns returns a copy of the columns in declaration order.
func (s *Schema) Columns() []Column {
	out := make([]Column, len(s.columns))
	copy(out, s.columns)
	return out
}

// Names returns the column names in declaration order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.columns))
	for i, c := range s.columns {
		names[i] = c.Name
	}
	return names
}

// Len returns the number of columns.
func (s *Schema) Len() int {
	return len(s.columns)
}

// Row is one record aligned with a Schema. nil entries are SQL NULL.
type Row []any

// Coerce converts raw cells (already in schema order) into a Row.
func (s *Schema) Coerce(cells []string) (Row, error) {
	if len(cells) != len(s.columns) {
		return nil, fmt.Errorf("expected %d cells, got %d", len(s.columns), len(cells))
	}
	row := make(Row, len(cells))
	for i, c := range s.columns {
		v, err := c.Type.Parse(cells[i])
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", c.Name, err)
		}
		row[i] = v
	}
	return row, nil
}
