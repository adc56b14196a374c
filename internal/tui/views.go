package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/hagallery/internal/tui/styles"
)

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	if m.ShowHelp {
		return m.renderHelp()
	}

	view := lipgloss.JoinVertical(
		lipgloss.Left,
		m.Grid.View(),
		m.renderFooter(),
	)

	if m.Lightbox.IsVisible() {
		view = lipgloss.Place(m.Width, m.Height,
			lipgloss.Center, lipgloss.Center,
			m.Lightbox.View())
	}

	// The alert sits above everything, including the lightbox
	if m.Alert.IsVisible() {
		view = lipgloss.Place(m.Width, m.Height,
			lipgloss.Center, lipgloss.Center,
			m.Alert.View())
	}

	return view
}

// renderFooter renders a single-line minimal footer
func (m Model) renderFooter() string {
	var left string
	switch {
	case m.Downloading:
		left = m.Spinner.View() + " " + styles.DimStyle.Render("Downloading...")
	case m.Refreshing:
		left = m.Spinner.View() + " " + styles.DimStyle.Render("Refreshing...")
	case m.StatusMsg != "":
		if m.StatusIsErr {
			left = styles.ErrorStyle.Render(m.StatusMsg)
		} else {
			left = styles.SuccessStyle.Render(m.StatusMsg)
		}
	}

	center := styles.DimStyle.Render(m.counts())
	right := styles.AccentStyle.Render("?") + styles.DimStyle.Render(" help")

	leftWidth := lipgloss.Width(left)
	centerWidth := lipgloss.Width(center)
	rightWidth := lipgloss.Width(right)

	if leftWidth+centerWidth+rightWidth >= m.Width {
		gap := max(m.Width-leftWidth-rightWidth, 0)
		return left + strings.Repeat(" ", gap) + right
	}

	available := m.Width - leftWidth - rightWidth
	leftPad := (available - centerWidth) / 2
	rightPad := available - centerWidth - leftPad

	return left + strings.Repeat(" ", leftPad) + center + strings.Repeat(" ", rightPad) + right
}

// renderHelp renders the help screen from the live key bindings
func (m Model) renderHelp() string {
	var b strings.Builder
	for i, sec := range helpSections() {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(styles.ModalTitleStyle.Render(sec.Title))
		b.WriteString("\n")
		for _, kb := range sec.Bindings {
			h := kb.Help()
			b.WriteString("  ")
			b.WriteString(styles.Pad(h.Key, 12))
			b.WriteString(styles.DimStyle.Render(h.Desc))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(styles.DownloadedChar + " marks images already downloaded.\n\n")
	b.WriteString(styles.DimStyle.Render("Press any key to return..."))

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(b.String()))
}
