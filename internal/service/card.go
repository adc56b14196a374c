package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/mmcdole/hagallery/internal/domain"
	"github.com/mmcdole/hagallery/internal/gallery"
)

// CardSize is the layout height hint, in grid rows, reported to hosts
const CardSize = 6

// State is a card's lifecycle phase
type State int

const (
	StateUninitialized State = iota // No runtime assigned yet
	StateActive                     // Runtime assigned, fetching on demand or on a timer
	StateDisposed                   // Torn down; no further fetches
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateActive:
		return "active"
	case StateDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}

var errNoRuntime = errors.New("card has no runtime")

// Ticker is the periodic trigger used for auto-refresh
type Ticker interface {
	Chan() <-chan time.Time
	Stop()
}

// TickerFactory creates a Ticker firing every d
type TickerFactory func(d time.Duration) Ticker

type timeTicker struct{ *time.Ticker }

func (t timeTicker) Chan() <-chan time.Time { return t.C }

func newTimeTicker(d time.Duration) Ticker { return timeTicker{time.NewTicker(d)} }

// CardOption configures a Card
type CardOption func(*Card)

// WithLocation sets the zone used to interpret file-name timestamps and
// format date labels
func WithLocation(loc *time.Location) CardOption {
	return func(c *Card) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// WithTickerFactory replaces the refresh ticker, for tests
func WithTickerFactory(f TickerFactory) CardOption {
	return func(c *Card) { c.newTicker = f }
}

// Card is the gallery component. A host configures it, assigns a runtime and
// eventually disposes of it; the card fetches, orders and publishes a
// gallery.View to its subscribers.
type Card struct {
	browser   domain.MediaBrowser
	logger    *slog.Logger
	loc       *time.Location
	newTicker TickerFactory

	ctx    context.Context // Cancelled on Dispose
	cancel context.CancelFunc

	mu        sync.Mutex
	state     State
	opts      gallery.Options
	rt        domain.Runtime
	view      gallery.View
	rendered  bool
	ticker    Ticker
	done      chan struct{}
	activated chan struct{} // Closed on activation or dispose
	observers map[int]func(gallery.View)
	nextObs   int
}

// NewCard creates an uninitialized card using browser to list media
func NewCard(browser domain.MediaBrowser, logger *slog.Logger, opts ...CardOption) *Card {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c := &Card{
		browser:   browser,
		logger:    logger,
		loc:       time.Local,
		newTicker: newTimeTicker,
		ctx:       ctx,
		cancel:    cancel,
		opts:      gallery.ResolveOptions(nil, nil),
		view:      gallery.View{Loading: true},
		activated: make(chan struct{}),
		observers: make(map[int]func(gallery.View)),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SetConfig resolves and applies card options. Until the first render the
// view shows the loading placeholder. A changed refresh interval takes
// effect only for a card that has not started its timer yet.
func (c *Card) SetConfig(cfg map[string]any, attrs gallery.Attributes) {
	opts := gallery.ResolveOptions(cfg, attrs)

	c.mu.Lock()
	if c.state == StateDisposed {
		c.mu.Unlock()
		return
	}
	c.opts = opts
	var notify []func(gallery.View)
	if !c.rendered {
		c.view.Loading = true
		notify = c.snapshotObservers()
	}
	view := c.view
	c.mu.Unlock()

	c.logger.Debug("card configured", "path", opts.Path, "limit", opts.Limit, "refresh", opts.Refresh)
	for _, fn := range notify {
		fn(view)
	}
}

// SetRuntime assigns the host runtime and renders. The first assignment
// activates the card and starts the refresh timer when one is configured;
// later assignments only re-render.
func (c *Card) SetRuntime(ctx context.Context, rt domain.Runtime) error {
	c.mu.Lock()
	if c.state == StateDisposed {
		c.mu.Unlock()
		return domain.ErrDisposed
	}
	c.rt = rt
	if c.state == StateUninitialized {
		c.state = StateActive
		close(c.activated)
		if c.opts.Refresh > 0 {
			c.startTickerLocked(c.opts.Refresh)
		}
	}
	c.mu.Unlock()

	return c.Refresh(ctx)
}

// startTickerLocked starts the single refresh loop. c.mu must be held.
func (c *Card) startTickerLocked(d time.Duration) {
	c.ticker = c.newTicker(d)
	c.done = make(chan struct{})
	go c.loop(c.ticker, c.done)
	c.logger.Info("auto-refresh started", "interval", d)
}

func (c *Card) loop(t Ticker, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case <-t.Chan():
			if err := c.Refresh(c.ctx); errors.Is(err, domain.ErrDisposed) {
				return
			}
		}
	}
}

// Refresh performs one fetch-and-render. List failures are logged and
// rendered as an empty gallery; the returned error only reports that the
// card cannot fetch at all.
func (c *Card) Refresh(ctx context.Context) error {
	c.mu.Lock()
	switch c.state {
	case StateDisposed:
		c.mu.Unlock()
		return domain.ErrDisposed
	case StateUninitialized:
		c.mu.Unlock()
		return errNoRuntime
	}
	rt, opts := c.rt, c.opts
	c.mu.Unlock()

	items, err := c.browser.BrowseImages(ctx, rt, opts.Path)
	if err != nil {
		c.logger.Warn("gallery fetch failed", "path", opts.Path, "error", err)
		items = nil
	}

	items = gallery.Arrange(items, opts.Limit, c.loc)
	c.publish(gallery.BuildTiles(items, c.loc))
	return nil
}

// publish swaps in a completed render. Overlapping refreshes are not
// serialized; the last one to finish wins.
func (c *Card) publish(tiles []gallery.Tile) {
	c.mu.Lock()
	if c.state == StateDisposed {
		c.mu.Unlock()
		return
	}
	c.rendered = true
	c.view.Loading = false
	c.view.Tiles = tiles
	c.view.Modal = nil
	c.view.Version++
	view := c.view
	notify := c.snapshotObservers()
	c.mu.Unlock()

	c.logger.Debug("gallery rendered", "tiles", len(tiles), "version", view.Version)
	for _, fn := range notify {
		fn(view)
	}
}

// Dispose stops the refresh timer and detaches the card. It is safe to call
// more than once; no fetch starts after it returns.
func (c *Card) Dispose() {
	c.mu.Lock()
	if c.state == StateDisposed {
		c.mu.Unlock()
		return
	}
	if c.state == StateUninitialized {
		close(c.activated)
	}
	c.state = StateDisposed
	if c.ticker != nil {
		c.ticker.Stop()
		close(c.done)
		c.ticker = nil
	}
	c.observers = make(map[int]func(gallery.View))
	c.mu.Unlock()

	c.cancel()
	c.logger.Info("card disposed")
}

// OpenModal opens the lightbox for a rendered tile
func (c *Card) OpenModal(mediaID string) (gallery.Modal, bool) {
	c.mu.Lock()
	tile, ok := c.view.Tile(mediaID)
	if !ok || c.state == StateDisposed {
		c.mu.Unlock()
		return gallery.Modal{}, false
	}
	m := gallery.OpenModal(tile.ID, tile.Title)
	c.view.Modal = &m
	view := c.view
	notify := c.snapshotObservers()
	c.mu.Unlock()

	for _, fn := range notify {
		fn(view)
	}
	return m, true
}

// CloseModal closes the lightbox, if open
func (c *Card) CloseModal() {
	c.mu.Lock()
	if c.view.Modal == nil {
		c.mu.Unlock()
		return
	}
	c.view.Modal = nil
	view := c.view
	notify := c.snapshotObservers()
	c.mu.Unlock()

	for _, fn := range notify {
		fn(view)
	}
}

// Subscribe registers fn to receive every published view. The returned
// function unregisters it.
func (c *Card) Subscribe(fn func(gallery.View)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextObs
	c.nextObs++
	c.observers[id] = fn
	return func() {
		c.mu.Lock()
		delete(c.observers, id)
		c.mu.Unlock()
	}
}

// snapshotObservers copies the observer list. c.mu must be held.
func (c *Card) snapshotObservers() []func(gallery.View) {
	out := make([]func(gallery.View), 0, len(c.observers))
	for _, fn := range c.observers {
		out = append(out, fn)
	}
	return out
}

// View returns the current render state
func (c *Card) View() gallery.View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// State returns the lifecycle phase
func (c *Card) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Options returns the resolved card options
func (c *Card) Options() gallery.Options {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opts
}

// Runtime returns the assigned runtime, or nil
func (c *Card) Runtime() domain.Runtime {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rt
}

// Activated is closed once the first runtime has been assigned, or when the
// card is disposed before that.
func (c *Card) Activated() <-chan struct{} { return c.activated }

// Location returns the display zone
func (c *Card) Location() *time.Location { return c.loc }

// Size returns the layout height hint
func (c *Card) Size() int { return CardSize }
