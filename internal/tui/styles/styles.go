package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	HABlue     = lipgloss.Color("#03A9F4")
	SlateDark  = lipgloss.Color("#1F2937")
	SlateLight = lipgloss.Color("#374151")
	DimGray    = lipgloss.Color("#6B7280")
	LightGray  = lipgloss.Color("#9CA3AF")
	White      = lipgloss.Color("#F9FAFB")
	Green      = lipgloss.Color("#10B981")
	Red        = lipgloss.Color("#EF4444")
)

// Borders
var (
	ActiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(HABlue)

	InactiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimGray)
)

// Text styles
var (
	DimStyle     = lipgloss.NewStyle().Foreground(DimGray)
	AccentStyle  = lipgloss.NewStyle().Foreground(HABlue)
	ErrorStyle   = lipgloss.NewStyle().Foreground(Red)
	SuccessStyle = lipgloss.NewStyle().Foreground(Green)
)

// DownloadedChar marks tiles that have been saved before
const DownloadedChar = "✓"

// Modal styles
var (
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(HABlue).
			Padding(1, 2).
			Background(SlateDark)

	ModalTitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true).
			MarginBottom(1)

	AlertStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Red).
			Padding(1, 2).
			Background(SlateDark)
)

// Button styles
var (
	ButtonStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(HABlue).
			Padding(0, 1)

	SecondaryButtonStyle = lipgloss.NewStyle().
				Foreground(LightGray).
				Background(SlateLight).
				Padding(0, 1)
)

// Spinner style
var (
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(HABlue)
)

// Filter styles
var (
	FilterStyle = lipgloss.NewStyle().
			Foreground(HABlue)

	FilterPromptStyle = lipgloss.NewStyle().
				Foreground(HABlue).
				Bold(true)
)

// Helper functions

// Truncate truncates a string to the given display width with ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if width <= 3 {
		return string(runes[:min(width, len(runes))])
	}
	for len(runes) > 0 && lipgloss.Width(string(runes))+3 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

// Pad pads a string to the given display width
func Pad(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return Truncate(s, width)
	}
	return s + strings.Repeat(" ", width-w)
}

// DateColumnWidth fits a YYYY-MM-DD label plus a space
const DateColumnWidth = 11

// TileRow is one line of the gallery list
type TileRow struct {
	Downloaded bool
	Date       string // Empty when the image has no timestamp
	Title      string
}

// RenderTileRow lays out mark, date and title across width. The selected row
// carries one background over every cell so ANSI resets inside it don't
// punch holes in the highlight.
func RenderTileRow(row TileRow, selected bool, width int) string {
	cell := func(fg lipgloss.Color) lipgloss.Style {
		st := lipgloss.NewStyle().Foreground(fg)
		if selected {
			st = st.Background(SlateLight)
		}
		return st
	}

	mark := " "
	if row.Downloaded {
		mark = DownloadedChar
	}
	date := row.Date
	if date == "" {
		date = "—"
	}
	titleFg := LightGray
	if selected {
		titleFg = White
	}

	// one margin cell each side, one gap after the mark
	titleWidth := max(width-DateColumnWidth-4, 0)
	line := cell(Green).Render(" "+mark+" ") +
		cell(DimGray).Render(Pad(date, DateColumnWidth)) +
		cell(titleFg).Render(Pad(Truncate(row.Title, titleWidth), titleWidth)) +
		cell(titleFg).Render(" ")
	return line
}
