package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorTaxi  = lipgloss.Color("220") // Yellow
	colorURL   = lipgloss.Color("245") // Gray
	colorDone  = lipgloss.Color("34")  // Green
	colorFail  = lipgloss.Color("196") // Red
	colorCount = lipgloss.Color("240") // Dark gray
)

var (
	tableStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorTaxi)
	urlStyle     = lipgloss.NewStyle().Foreground(colorURL)
	doneStyle    = lipgloss.NewStyle().Foreground(colorDone)
	failStyle    = lipgloss.NewStyle().Foreground(colorFail)
	counterStyle = lipgloss.NewStyle().Foreground(colorCount)
	spinnerStyle = lipgloss.NewStyle().Foreground(colorTaxi)
)

const (
	symbolDone = "✓"
	symbolFail = "✗"
)
