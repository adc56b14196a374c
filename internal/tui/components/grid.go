package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/hagallery/internal/gallery"
	"github.com/mmcdole/hagallery/internal/tui/styles"
	"github.com/sahilm/fuzzy"
)

// Layout constants for grid
const (
	// Border adds 1 char on each side (left+right for width, top+bottom for height)
	BorderWidth  = 2
	BorderHeight = 2

	// Padding inside the border (Padding(0,1) = 1 left + 1 right)
	HorizontalPadding = 2

	// Scroll indicators ("↑ more" and "↓ more") each take 1 line
	ScrollIndicatorLines = 2

	// Title line at top of content area
	BreadcrumbLines = 1

	// Extra safety margin for item width calculations
	ItemWidthMargin = 2
)

// Grid lists gallery tiles newest first
type Grid struct {
	tiles      []gallery.Tile
	loading    bool
	downloaded map[string]bool
	persisted  func(id string) bool // Download history lookup; may be nil

	// Selection
	cursor     int
	offset     int
	maxVisible int

	// Dimensions
	width   int
	height  int
	focused bool

	// Border title (media-source path)
	breadcrumb string

	// Filter state
	filterActive bool
	filterInput  textinput.Model
	filterQuery  string
	filteredIdx  []int // indices into tiles
}

// NewGrid creates a new grid component
func NewGrid() Grid {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	return Grid{
		filterInput: ti,
		loading:     true,
		downloaded:  make(map[string]bool),
	}
}

// SetView replaces the grid content with a rendered card view. The cursor
// stays on the same tile when it survives the refresh, and an active filter
// is re-applied.
func (g *Grid) SetView(v gallery.View) {
	var selectedID string
	if t, ok := g.SelectedTile(); ok {
		selectedID = t.ID
	}

	g.loading = v.Loading
	g.tiles = v.Tiles
	if g.filterActive {
		g.applyFilter()
	}

	g.cursor = 0
	g.offset = 0
	for i := 0; i < g.itemCount(); i++ {
		if g.tiles[g.mapIndex(i)].ID == selectedID {
			g.SetCursor(i)
			break
		}
	}
}

// MarkDownloaded flags a tile as saved
func (g *Grid) MarkDownloaded(id string) {
	g.downloaded[id] = true
}

// SetDownloadedFunc sets the history lookup used to mark saved tiles
func (g *Grid) SetDownloadedFunc(fn func(id string) bool) {
	g.persisted = fn
}

// IsDownloaded reports whether a tile is marked as saved
func (g Grid) IsDownloaded(id string) bool {
	return g.downloaded[id] || (g.persisted != nil && g.persisted(id))
}

// SetSize updates the component dimensions
func (g *Grid) SetSize(width, height int) {
	g.width = width
	g.height = height
	g.recalcMaxVisible()
}

// SetBreadcrumb sets the text displayed on the first line
func (g *Grid) SetBreadcrumb(crumb string) {
	g.breadcrumb = crumb
}

// recalcMaxVisible calculates maxVisible accounting for breadcrumb and filter bar
func (g *Grid) recalcMaxVisible() {
	interiorHeight := g.height - BorderHeight
	g.maxVisible = interiorHeight - ScrollIndicatorLines - BreadcrumbLines
	if g.filterActive {
		g.maxVisible--
	}
	if g.maxVisible < 1 {
		g.maxVisible = 1
	}
}

// SetFocused sets the focus state
func (g *Grid) SetFocused(focused bool) {
	g.focused = focused
}

// Cursor returns the current cursor position
func (g Grid) Cursor() int {
	return g.cursor
}

// SetCursor sets the cursor position
func (g *Grid) SetCursor(pos int) {
	max := g.itemCount() - 1
	if max < 0 {
		g.cursor = 0
		return
	}
	if pos < 0 {
		pos = 0
	}
	if pos > max {
		pos = max
	}
	g.cursor = pos
	g.ensureVisible()
}

// SelectedTile returns the tile under the cursor
func (g Grid) SelectedTile() (gallery.Tile, bool) {
	count := g.itemCount()
	if count == 0 || g.cursor >= count {
		return gallery.Tile{}, false
	}
	return g.tiles[g.mapIndex(g.cursor)], true
}

// VisibleTiles returns the tiles after filtering, in display order
func (g Grid) VisibleTiles() []gallery.Tile {
	out := make([]gallery.Tile, g.itemCount())
	for i := range out {
		out[i] = g.tiles[g.mapIndex(i)]
	}
	return out
}

func (g Grid) itemCount() int {
	if g.filteredIdx != nil {
		return len(g.filteredIdx)
	}
	return len(g.tiles)
}

// mapIndex maps a cursor position to the actual index in tiles
func (g Grid) mapIndex(i int) int {
	if g.filteredIdx != nil && i < len(g.filteredIdx) {
		return g.filteredIdx[i]
	}
	return i
}

// ensureVisible ensures the cursor is visible
func (g *Grid) ensureVisible() {
	if g.cursor < g.offset {
		g.offset = g.cursor
	}
	if g.cursor >= g.offset+g.maxVisible {
		g.offset = g.cursor - g.maxVisible + 1
	}
}

// ToggleFilter activates the filter input
func (g *Grid) ToggleFilter() {
	g.filterActive = true
	g.filterInput.Focus()
	g.recalcMaxVisible()
}

// IsFiltering returns true if filter mode is active
func (g Grid) IsFiltering() bool {
	return g.filterActive
}

// IsFilterTyping returns true if filter is active and input is focused
func (g Grid) IsFilterTyping() bool {
	return g.filterActive && g.filterInput.Focused()
}

// ClearFilter deactivates the filter and shows all tiles
func (g *Grid) ClearFilter() {
	g.filterActive = false
	g.filterQuery = ""
	g.filteredIdx = nil
	g.filterInput.SetValue("")
	g.filterInput.Blur()
	g.recalcMaxVisible()
}

// applyFilter keeps tiles whose title fuzzy-matches the query, preserving
// newest-first order
func (g *Grid) applyFilter() {
	query := g.filterInput.Value()
	g.filterQuery = query

	if query == "" {
		g.filteredIdx = nil
		return
	}

	titles := make([]string, len(g.tiles))
	for i, t := range g.tiles {
		titles[i] = strings.ToLower(t.Title)
	}

	matches := fuzzy.FindNoSort(strings.ToLower(query), titles)
	g.filteredIdx = make([]int, len(matches))
	for i, match := range matches {
		g.filteredIdx[i] = match.Index
	}

	g.cursor = 0
	g.offset = 0
}

// Init initializes the component
// Update handles messages
func (g Grid) Update(msg tea.Msg) (Grid, tea.Cmd) {
	if !g.focused {
		return g, nil
	}

	// Typing into the filter
	if g.filterActive && g.filterInput.Focused() {
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch {
			case key.Matches(msg, GridKeys.Escape):
				g.ClearFilter()
				return g, nil
			case key.Matches(msg, GridKeys.Enter):
				g.filterInput.Blur()
				return g, nil
			case msg.Type == tea.KeyBackspace && g.filterInput.Value() == "":
				g.ClearFilter()
				return g, nil
			}
		}

		var cmd tea.Cmd
		g.filterInput, cmd = g.filterInput.Update(msg)
		g.applyFilter()
		return g, cmd
	}

	// Filter applied but blurred
	if g.filterActive {
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch {
			case key.Matches(msg, GridKeys.Escape):
				g.ClearFilter()
				return g, nil
			case key.Matches(msg, GridKeys.Filter):
				g.filterInput.Focus()
				return g, nil
			}
		}
	}

	count := g.itemCount()
	if count == 0 {
		return g, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, GridKeys.Down):
			if g.cursor < count-1 {
				g.cursor++
				g.ensureVisible()
			}
		case key.Matches(msg, GridKeys.Up):
			if g.cursor > 0 {
				g.cursor--
				g.ensureVisible()
			}
		case key.Matches(msg, GridKeys.Home):
			g.cursor = 0
			g.offset = 0
		case key.Matches(msg, GridKeys.End):
			g.cursor = count - 1
			g.ensureVisible()
		case key.Matches(msg, GridKeys.HalfDown):
			g.SetCursor(g.cursor + g.maxVisible/2)
		case key.Matches(msg, GridKeys.HalfUp):
			g.SetCursor(g.cursor - g.maxVisible/2)
		}
	}

	return g, nil
}

// View renders the component
func (g Grid) View() string {
	style := styles.InactiveBorder
	if g.focused {
		style = styles.ActiveBorder
	}

	frameW, frameH := style.GetFrameSize()
	return style.
		Width(g.width - frameW).
		Height(g.height - frameH).
		Render(g.renderList())
}

func (g Grid) renderList() string {
	itemWidth := g.width - BorderWidth - HorizontalPadding - ItemWidthMargin

	breadcrumbLine := " "
	if g.breadcrumb != "" {
		crumb := g.breadcrumb
		if len(crumb) > itemWidth && itemWidth > 3 {
			crumb = "..." + crumb[len(crumb)-itemWidth+3:]
		}
		breadcrumbLine = styles.AccentStyle.Render(crumb)
	}

	count := g.itemCount()
	if g.loading || count == 0 {
		msg := gallery.EmptyText
		switch {
		case g.loading:
			msg = gallery.LoadingText
		case g.filterActive && g.filterQuery != "":
			msg = "No matches"
		}
		content := breadcrumbLine + "\n \n" + styles.DimStyle.Render(msg) + "\n "
		if g.filterActive {
			content += "\n" + g.renderFilterBar()
		}
		return content
	}

	end := min(g.offset+g.maxVisible, count)
	lines := make([]string, 0, end-g.offset)
	for i := g.offset; i < end; i++ {
		lines = append(lines, g.renderTile(g.tiles[g.mapIndex(i)], i == g.cursor, itemWidth))
	}

	// Always reserve the indicator lines to prevent layout shifts
	header := " "
	if g.offset > 0 {
		header = styles.DimStyle.Render("↑ more")
	}
	footer := " "
	if end < count {
		footer = styles.DimStyle.Render("↓ more")
	}

	content := breadcrumbLine + "\n" + header + "\n" + strings.Join(lines, "\n") + "\n" + footer
	if g.filterActive {
		content += "\n" + g.renderFilterBar()
	}
	return content
}

func (g Grid) renderTile(t gallery.Tile, selected bool, width int) string {
	return styles.RenderTileRow(styles.TileRow{
		Downloaded: g.IsDownloaded(t.ID),
		Date:       t.DateLabel,
		Title:      t.Title,
	}, selected, width)
}

func (g Grid) renderFilterBar() string {
	input := g.filterInput.View()
	countStr := ""
	if g.filterQuery != "" {
		countStr = styles.DimStyle.Render(fmt.Sprintf(" [%d/%d]", g.itemCount(), len(g.tiles)))
	}
	return input + countStr
}
