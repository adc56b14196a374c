package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/hagallery/internal/domain"
	"github.com/mmcdole/hagallery/internal/service"
	"github.com/mmcdole/hagallery/internal/tui/components"
	"github.com/mmcdole/hagallery/internal/tui/styles"
)

// ChromeHeight is the footer line below the grid
const ChromeHeight = 1

// statusTimeout is how long footer messages stay visible
const statusTimeout = 4 * time.Second

// Model is the main Bubble Tea model for the application
type Model struct {
	Ready    bool
	ShowHelp bool

	// Services
	Card        *service.Card
	Downloads   *service.DownloadService
	Viewer      Viewer
	Runtime     domain.Runtime
	DownloadDir string

	observer    *ChannelObserver
	unsubscribe func()

	// UI Components
	Grid     components.Grid
	Lightbox components.Lightbox
	Alert    components.Alert
	Spinner  spinner.Model

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg   string
	StatusIsErr bool
	statusSeq   int
	Refreshing  bool
	Downloading bool
}

// NewModel creates a new application model bound to card. rt is assigned to
// the card when the program starts.
func NewModel(
	card *service.Card,
	downloads *service.DownloadService,
	viewer Viewer,
	rt domain.Runtime,
	downloadDir string,
) Model {
	obs := NewChannelObserver(4)
	unsubscribe := card.Subscribe(obs.OnView)

	grid := components.NewGrid()
	grid.SetFocused(true)
	grid.SetBreadcrumb(card.Options().Path)
	grid.SetDownloadedFunc(downloads.Downloaded)
	grid.SetView(card.View())

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle

	return Model{
		Card:        card,
		Downloads:   downloads,
		Viewer:      viewer,
		Runtime:     rt,
		DownloadDir: downloadDir,
		observer:    obs,
		unsubscribe: unsubscribe,
		Grid:        grid,
		Lightbox:    components.NewLightbox(),
		Alert:       components.NewAlert(),
		Spinner:     sp,
		Refreshing:  true,
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		ActivateCmd(m.Card, m.Runtime),
		WaitForViewCmd(m.observer.Chan()),
		m.Spinner.Tick,
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.Grid.SetSize(m.Width, m.Height-ChromeHeight)
		m.Lightbox.SetSize(m.Width, m.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case ViewUpdatedMsg:
		m.Grid.SetView(msg.View)
		m.Grid.SetBreadcrumb(m.Card.Options().Path)
		// The lightbox closes once its image drops out of the list
		if m.Lightbox.IsVisible() && !msg.View.Loading {
			if _, ok := msg.View.Tile(m.Lightbox.Modal().MediaID); !ok {
				m.Lightbox.Hide()
			}
		}
		if !msg.View.Loading {
			m.Refreshing = false
		}
		return m, WaitForViewCmd(m.observer.Chan())

	case RefreshDoneMsg:
		m.Refreshing = false
		if msg.Err != nil {
			return m, m.setStatus(msg.Err.Error(), true)
		}
		return m, nil

	case PreviewLoadedMsg:
		m.Lightbox.SetPreview(msg.MediaID, msg.Preview, msg.Err)
		return m, nil

	case DownloadDoneMsg:
		m.Downloading = false
		if msg.Err != nil {
			// The lightbox stays open behind the alert
			m.Alert.Show("Download failed", msg.Err.Error())
			return m, nil
		}
		m.Grid.MarkDownloaded(msg.MediaID)
		return m, m.setStatus("Saved "+msg.Path, false)

	case ExternalOpenedMsg:
		if msg.Err != nil {
			m.Alert.Show("Could not open image", msg.Err.Error())
			return m, nil
		}
		return m, m.setStatus("Opened "+msg.Path, false)

	case ClearStatusMsg:
		if msg.Seq == m.statusSeq {
			m.StatusMsg = ""
			m.StatusIsErr = false
		}
		return m, nil

	case ErrMsg:
		m.Refreshing = false
		return m, m.setStatus(msg.Error(), true)
	}

	return m, nil
}

// setStatus shows a footer message that clears itself
func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.statusSeq++
	m.StatusMsg = text
	m.StatusIsErr = isErr
	return ClearStatusCmd(m.statusSeq, statusTimeout)
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	// Blocking alert swallows the key that dismisses it
	if m.Alert.HandleKey(msg.String()) {
		return m, nil
	}

	if m.ShowHelp {
		m.ShowHelp = false
		return m, nil
	}

	if handled, action := m.Lightbox.HandleKey(msg); handled {
		return m.handleLightboxAction(action)
	}

	// Filter typing gets every key
	if m.Grid.IsFilterTyping() {
		var cmd tea.Cmd
		m.Grid, cmd = m.Grid.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m.quit()

	case key.Matches(msg, Keys.Help):
		m.ShowHelp = true
		return m, nil

	case key.Matches(msg, Keys.Refresh):
		m.Refreshing = true
		return m, RefreshCmd(m.Card)

	case key.Matches(msg, Keys.Filter) && !m.Grid.IsFiltering():
		m.Grid.ToggleFilter()
		return m, nil

	case key.Matches(msg, Keys.Open):
		return m.openSelected()
	}

	var cmd tea.Cmd
	m.Grid, cmd = m.Grid.Update(msg)
	return m, cmd
}

// openSelected opens the lightbox on the tile under the cursor
func (m Model) openSelected() (tea.Model, tea.Cmd) {
	tile, ok := m.Grid.SelectedTile()
	if !ok {
		return m, nil
	}
	modal, ok := m.Card.OpenModal(tile.ID)
	if !ok {
		return m, nil
	}
	m.Lightbox.Show(modal)
	cols, rows := m.Lightbox.PreviewSize()
	return m, LoadPreviewCmd(m.Downloads, m.Card.Runtime(), modal, cols, rows)
}

func (m Model) handleLightboxAction(action components.LightboxAction) (tea.Model, tea.Cmd) {
	modal := m.Lightbox.Modal()

	switch action {
	case components.LightboxClose:
		m.Lightbox.Hide()
		m.Card.CloseModal()
		return m, nil

	case components.LightboxDownload:
		if m.Downloading {
			return m, nil
		}
		m.Downloading = true
		return m, SaveImageCmd(m.Downloads, m.Card.Runtime(), modal, m.DownloadDir)

	case components.LightboxOpenExternal:
		if m.Viewer == nil {
			m.Alert.Show("Could not open image", "No image viewer configured")
			return m, nil
		}
		return m, OpenExternalCmd(m.Downloads, m.Viewer, m.Card.Runtime(), modal, m.DownloadDir)
	}

	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	return m, tea.Quit
}

// counts returns visible and total tile numbers for the footer
func (m Model) counts() string {
	v := m.Card.View()
	shown := len(m.Grid.VisibleTiles())
	if shown == len(v.Tiles) {
		return fmt.Sprintf("%d images", shown)
	}
	return fmt.Sprintf("%d/%d images", shown, len(v.Tiles))
}
