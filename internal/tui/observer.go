package tui

import "github.com/mmcdole/hagallery/internal/gallery"

// ChannelObserver adapts card view updates to a channel for Bubble Tea.
type ChannelObserver struct {
	ch chan gallery.View
}

// NewChannelObserver creates a new channel-based observer.
func NewChannelObserver(size int) *ChannelObserver {
	return &ChannelObserver{ch: make(chan gallery.View, size)}
}

// OnView sends the view to the channel. When the channel is full the oldest
// pending view is dropped, since only the latest render matters.
func (o *ChannelObserver) OnView(v gallery.View) {
	for {
		select {
		case o.ch <- v:
			return
		default:
		}
		select {
		case <-o.ch:
		default:
		}
	}
}

// Chan returns the receive side
func (o *ChannelObserver) Chan() <-chan gallery.View {
	return o.ch
}
