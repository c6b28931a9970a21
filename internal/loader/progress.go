package loader

import "time"

// BatchStats describes one written batch.
type BatchStats struct {
	// Index is zero-based.
	Index     int
	Rows      int64
	TotalRows int64

	// BytesRead counts compressed source bytes consumed so far.
	BytesRead int64
	// TotalBytes is the compressed source size, or -1 when unknown.
	TotalBytes int64

	// Took covers reading and writing the batch.
	Took time.Duration
}

// Fraction returns how much of the source has been read, or -1 when the size is unknown.
func (s BatchStats) Fraction() float64 {
	if s.TotalBytes <= 0 {
		return -1
	}
	f := float64(s.BytesRead) / float64(s.TotalBytes)
	if f > 1 {
		return 1
	}
	return f
}

// Progress receives ingestion events in order: Start, any number of Batch,
// then exactly one of Done or Fail. Fail may come without Start when the
// table name is rejected.
type Progress interface {
	Start(table, url string)
	Batch(stats BatchStats)
	Done(result Result)
	Fail(err error)
}

// NopProgress ignores every event.
type NopProgress struct{}

func (NopProgress) Start(string, string) {}
func (NopProgress) Batch(BatchStats)     {}
func (NopProgress) Done(Result)          {}
func (NopProgress) Fail(error)           {}
