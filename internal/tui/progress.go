package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/vvka-141/taxiload/internal/loader"
	"github.com/vvka-141/taxiload/pkg/taxiload"
)

// NewProgress returns the progress reporter for mode. Interactive output goes to out.
func NewProgress(mode Mode, out io.Writer, logger taxiload.Logger) loader.Progress {
	if mode == ModeInteractive {
		return NewDisplay(out)
	}
	return NewPlain(logger)
}

// Plain reports one log line per batch.
type Plain struct {
	logger taxiload.Logger
}

// NewPlain returns a Plain reporter writing through logger.
func NewPlain(logger taxiload.Logger) *Plain {
	return &Plain{logger: logger}
}

// Start logs the source and destination table.
func (p *Plain) Start(table, url string) {
	p.logger.Info("Downloading %s into %s", url, table)
}

// Batch logs the size and duration of one appended batch.
func (p *Plain) Batch(s loader.BatchStats) {
	p.logger.Info("Inserted chunk: %d rows, took %.3f seconds", s.Rows, s.Took.Seconds())
}

// Done logs the totals of a finished run.
func (p *Plain) Done(r loader.Result) {
	p.logger.Info("Finished ingesting %d rows into %s in %s", r.Rows, r.Table, r.Duration.Round(time.Millisecond))
}

// Fail is a no-op; the caller reports the error.
func (p *Plain) Fail(error) {}

type (
	doneMsg struct{ result loader.Result }
	failMsg struct{ err error }
)

// Display draws a live progress bar with a bubbletea program.
// The program runs between Start and Done or Fail.
type Display struct {
	out     io.Writer
	program *tea.Program
	exited  chan struct{}
}

// NewDisplay returns a Display drawing to out.
func NewDisplay(out io.Writer) *Display {
	return &Display{out: out}
}

// Start launches the bubbletea program in the background.
func (d *Display) Start(table, url string) {
	d.program = tea.NewProgram(newProgressModel(table, url),
		tea.WithOutput(d.out),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)
	d.exited = make(chan struct{})
	go func() {
		defer close(d.exited)
		d.program.Run() //nolint:errcheck
	}()
}

// Batch forwards s to the running program.
func (d *Display) Batch(s loader.BatchStats) {
	if d.program != nil {
		d.program.Send(s)
	}
}

// Done shows the summary and stops the program.
func (d *Display) Done(r loader.Result) {
	d.finish(doneMsg{result: r})
}

// Fail shows how far the run got and stops the program.
func (d *Display) Fail(err error) {
	d.finish(failMsg{err: err})
}

// finish delivers the final message and waits for the last frame to be drawn.
func (d *Display) finish(msg tea.Msg) {
	if d.program == nil {
		return
	}
	d.program.Send(msg)
	<-d.exited
	d.program = nil
}

type progressModel struct {
	table   string
	url     string
	bar     progress.Model
	spinner spinner.Model

	last    loader.BatchStats
	batches int
	result  *loader.Result
	err     error
}

func newProgressModel(table, url string) progressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	return progressModel{
		table:   table,
		url:     url,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		spinner: s,
		last:    loader.BatchStats{TotalBytes: -1},
	}
}

func (m progressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loader.BatchStats:
		m.last = msg
		m.batches++
		return m, nil
	case doneMsg:
		m.result = &msg.result
		return m, tea.Quit
	case failMsg:
		m.err = msg.err
		return m, tea.Quit
	case tea.WindowSizeMsg:
		m.bar.Width = min(max(msg.Width-4, 10), 60)
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m progressModel) View() string {
	var b strings.Builder

	switch {
	case m.result != nil:
		b.WriteString(doneStyle.Render(fmt.Sprintf("%s Loaded %d rows into %s in %s",
			symbolDone, m.result.Rows, m.result.Table, m.result.Duration.Round(time.Millisecond))))
	case m.err != nil:
		b.WriteString(failStyle.Render(fmt.Sprintf("%s Loading %s stopped after %d rows",
			symbolFail, m.table, m.last.TotalRows)))
	default:
		b.WriteString(tableStyle.Render("Loading " + m.table))
		b.WriteString("\n")
		b.WriteString(urlStyle.Render(m.url))
		b.WriteString("\n\n")
		if f := m.last.Fraction(); f >= 0 {
			b.WriteString(m.bar.ViewAs(f))
		} else {
			b.WriteString(m.spinner.View() + " reading")
		}
		b.WriteString("\n")
		b.WriteString(counterStyle.Render(fmt.Sprintf("%d rows in %d batches", m.last.TotalRows, m.batches)))
	}

	b.WriteString("\n")
	return b.String()
}
