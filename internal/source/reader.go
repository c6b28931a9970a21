package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/vvka-141/taxiload/internal/schema"
	"github.com/vvka-141/taxiload/pkg/taxiload"
)

// Batch is a bounded slice of rows drawn from the stream in one read.
type Batch struct {
	// Index is the zero-based position of the batch in the stream.
	Index int
	Rows  []schema.Row
}

// BatchReader decodes a CSV stream into batches of rows coerced to a schema.
// It is not safe for concurrent use.
type BatchReader struct {
	csv    *csv.Reader
	schema *schema.Schema
	size   int

	// positions maps schema column i to its CSV field index.
	positions []int
	extra     []string
	started   bool
	next      int
	done      bool
}

// NewBatchReader returns a reader producing batches of at most size rows.
func NewBatchReader(r io.Reader, s *schema.Schema, size int) *BatchReader {
	if size <= 0 {
		size = taxiload.DefaultBatchSize
	}
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	return &BatchReader{csv: cr, schema: s, size: size}
}

// ExtraColumns lists header columns that are not part of the schema.
// Valid after the first call to Next.
func (b *BatchReader) ExtraColumns() []string {
	return b.extra
}

// Next returns the next batch, or io.EOF once the stream is exhausted.
// The first call always yields a batch, with zero rows for a header-only file.
func (b *BatchReader) Next() (*Batch, error) {
	if b.done {
		return nil, io.EOF
	}
	if !b.started {
		if err := b.readHeader(); err != nil {
			b.done = true
			return nil, err
		}
		b.started = true
	}

	batch := &Batch{Index: b.next, Rows: make([]schema.Row, 0, min(b.size, 1024))}
	for len(batch.Rows) < b.size {
		record, err := b.csv.Read()
		if errors.Is(err, io.EOF) {
			b.done = true
			break
		}
		if err != nil {
			// csv.ParseError already carries the line number.
			b.done = true
			return nil, fmt.Errorf("%w: %w", err, taxiload.ErrSourceRead)
		}

		row, err := b.coerce(record)
		if err != nil {
			b.done = true
			// Quoted fields may span lines, so ask the decoder where the record started.
			line, _ := b.csv.FieldPos(0)
			return nil, fmt.Errorf("line %d: %w: %w", line, err, taxiload.ErrSourceRead)
		}
		batch.Rows = append(batch.Rows, row)
	}

	if len(batch.Rows) == 0 && batch.Index > 0 {
		return nil, io.EOF
	}
	b.next++
	return batch, nil
}

func (b *BatchReader) readHeader() error {
	header, err := b.csv.Read()
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("stream is empty, expected a CSV header: %w", taxiload.ErrSourceRead)
	}
	if err != nil {
		return fmt.Errorf("failed to read CSV header: %w: %w", err, taxiload.ErrSourceRead)
	}

	names := make([]string, len(header))
	index := make(map[string]int, len(header))
	for i, name := range header {
		// A UTF-8 byte order mark may precede the first column name.
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		names[i] = name
		index[name] = i
	}

	b.positions = make([]int, b.schema.Len())
	var missing []string
	for i, name := range b.schema.Names() {
		pos, ok := index[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		b.positions[i] = pos
		delete(index, name)
	}
	if len(missing) > 0 {
		return fmt.Errorf("CSV header is missing columns %v: %w", missing, taxiload.ErrSourceRead)
	}

	for _, name := range names {
		if _, ok := index[name]; ok {
			b.extra = append(b.extra, name)
		}
	}
	b.csv.FieldsPerRecord = len(header)
	return nil
}

func (b *BatchReader) coerce(record []string) (schema.Row, error) {
	cells := make([]string, len(b.positions))
	for i, pos := range b.positions {
		cells[i] = record[pos]
	}
	return b.schema.Coerce(cells)
}
