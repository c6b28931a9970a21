package tui

import (
	"bytes"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/taxiload/internal/loader"
	"github.com/vvka-141/taxiload/internal/logging"
)

func update(t *testing.T, m progressModel, msg tea.Msg) (progressModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	pm, ok := next.(progressModel)
	require.True(t, ok)
	return pm, cmd
}

func TestProgressModel_CountsBatches(t *testing.T) {
	m := newProgressModel("trips_2021_1", "http://example.com/f.csv.gz")
	assert.Contains(t, m.View(), "Loading trips_2021_1")
	assert.Contains(t, m.View(), "reading")

	m, _ = update(t, m, loader.BatchStats{Index: 0, Rows: 10, TotalRows: 10, BytesRead: 50, TotalBytes: 100})
	m, _ = update(t, m, loader.BatchStats{Index: 1, Rows: 5, TotalRows: 15, BytesRead: 100, TotalBytes: 100})

	view := m.View()
	assert.Contains(t, view, "15 rows in 2 batches")
	assert.Contains(t, view, "100%")
}

func TestProgressModel_DoneQuits(t *testing.T) {
	m := newProgressModel("trips_2021_1", "u")
	m, cmd := update(t, m, doneMsg{result: loader.Result{Table: "trips_2021_1", Rows: 42, Duration: time.Second}})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Contains(t, m.View(), "Loaded 42 rows into trips_2021_1")
}

func TestProgressModel_FailQuits(t *testing.T) {
	m := newProgressModel("trips_2021_1", "u")
	m, _ = update(t, m, loader.BatchStats{TotalRows: 7, TotalBytes: -1})
	m, cmd := update(t, m, failMsg{err: errors.New("boom")})

	require.NotNil(t, cmd)
	assert.Contains(t, m.View(), "stopped after 7 rows")
}

func TestProgressModel_WindowResize(t *testing.T) {
	m := newProgressModel("t_2021_1", "u")
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 30})
	assert.Equal(t, 26, m.bar.Width)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 200})
	assert.Equal(t, 60, m.bar.Width)
}

func TestPlain(t *testing.T) {
	var buf bytes.Buffer
	p := NewPlain(logging.NewWriterLogger(&buf, false))

	p.Start("trips_2021_1", "http://example.com/f.csv.gz")
	p.Batch(loader.BatchStats{Rows: 100000, Took: 1500 * time.Millisecond})
	p.Done(loader.Result{Table: "trips_2021_1", Rows: 100000, Duration: 2 * time.Second})
	p.Fail(errors.New("ignored"))

	assert.Equal(t,
		"Downloading http://example.com/f.csv.gz into trips_2021_1\n"+
			"Inserted chunk: 100000 rows, took 1.500 seconds\n"+
			"Finished ingesting 100000 rows into trips_2021_1 in 2s\n",
		buf.String())
}

func TestDisplay_RunsUntilDone(t *testing.T) {
	var buf bytes.Buffer
	d := NewDisplay(&buf)

	d.Start("trips_2021_1", "u")
	d.Batch(loader.BatchStats{Rows: 3, TotalRows: 3, TotalBytes: -1})
	d.Done(loader.Result{Table: "trips_2021_1", Rows: 3})

	assert.Nil(t, d.program)
	assert.Contains(t, buf.String(), "Loaded 3 rows")
}

func TestDisplay_FailWithoutStartIsNoop(t *testing.T) {
	d := NewDisplay(&bytes.Buffer{})
	assert.NotPanics(t, func() { d.Fail(errors.New("bad name")) })
}

func TestNewProgress(t *testing.T) {
	logger := logging.NewNullLogger()
	assert.IsType(t, &Plain{}, NewProgress(ModeNonInteractive, &bytes.Buffer{}, logger))
	assert.IsType(t, &Display{}, NewProgress(ModeInteractive, &bytes.Buffer{}, logger))
}
