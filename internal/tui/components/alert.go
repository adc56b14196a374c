package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/hagallery/internal/tui/styles"
)

// Alert is a blocking message box dismissed by any key
type Alert struct {
	visible bool
	title   string
	message string
}

// NewAlert creates a hidden alert
func NewAlert() Alert {
	return Alert{}
}

// Show displays the alert
func (a *Alert) Show(title, message string) {
	a.visible = true
	a.title = title
	a.message = message
}

// IsVisible returns whether the alert is shown
func (a Alert) IsVisible() bool {
	return a.visible
}

// HandleKey dismisses the alert on any key
func (a *Alert) HandleKey(string) bool {
	if !a.visible {
		return false
	}
	a.visible = false
	return true
}

// View renders the alert box
func (a Alert) View() string {
	if !a.visible {
		return ""
	}
	return styles.AlertStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		styles.ModalTitleStyle.Render(a.title),
		a.message,
		"",
		styles.DimStyle.Render("Press any key to continue"),
	))
}
