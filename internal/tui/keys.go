package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/mmcdole/hagallery/internal/tui/components"
)

// KeyMap holds the gallery-wide bindings, active whenever no overlay has focus
type KeyMap struct {
	Open    key.Binding
	Filter  key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// Keys is the global key bindings instance
var Keys = KeyMap{
	Open:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open image")),
	Filter:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter by name")),
	Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh now")),
	Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "this help")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// helpSection is one titled column of the help screen
type helpSection struct {
	Title    string
	Bindings []key.Binding
}

// helpSections lists what the help screen shows, in display order
func helpSections() []helpSection {
	g, l := components.GridKeys, components.LightboxKeys
	return []helpSection{
		{Title: "GALLERY", Bindings: []key.Binding{g.Up, g.Down, g.Home, g.End, g.HalfUp, g.HalfDown, Keys.Open}},
		{Title: "LIGHTBOX", Bindings: []key.Binding{l.Next, l.Press, l.Download, l.Open, l.Close}},
		{Title: "OTHER", Bindings: []key.Binding{Keys.Filter, Keys.Refresh, Keys.Help, Keys.Quit}},
	}
}
