package atom

import "context"

// ChannelWatcher adapts an existing byte channel to a Watcher.
// Useful for tests and for sources that already produce payloads in-process.
type ChannelWatcher struct {
	ch     <-chan []byte
	direct bool
}

// NewChannelWatcher creates a ChannelWatcher that relays values from ch
// through its own goroutine, stopping when the Watch context ends.
//
// The relay holds at most one undelivered payload. A payload that arrives
// before the previous one was read replaces it, since only the newest state
// is worth committing. The last payload is still delivered after ch closes.
func NewChannelWatcher(ch <-chan []byte) *ChannelWatcher {
	return &ChannelWatcher{ch: ch}
}

// NewSyncChannelWatcher creates a ChannelWatcher that hands ch back as is.
// Every payload is observed. Use with Feed.SyncMode for deterministic tests.
func NewSyncChannelWatcher(ch <-chan []byte) *ChannelWatcher {
	return &ChannelWatcher{ch: ch, direct: true}
}

// Watch returns a channel that emits values from the wrapped channel.
func (w *ChannelWatcher) Watch(ctx context.Context) (<-chan []byte, error) {
	if w.direct {
		return w.ch, nil
	}

	out := make(chan []byte)
	go w.relay(ctx, out)
	return out, nil
}

// relay forwards the newest payload from w.ch to out until ctx ends or w.ch
// closes and its last payload is delivered.
func (w *ChannelWatcher) relay(ctx context.Context, out chan<- []byte) {
	defer close(out)

	var (
		latest []byte
		held   bool
		in     = w.ch
	)
	for in != nil || held {
		// A nil channel blocks, which disables the send case when nothing
		// is held and the receive case once the source has closed.
		var send chan<- []byte
		if held {
			send = out
		}

		select {
		case <-ctx.Done():
			return
		case v, ok := <-in:
			if !ok {
				in = nil
				continue
			}
			latest, held = v, true
		case send <- latest:
			latest, held = nil, false
		}
	}
}

var _ Watcher = (*ChannelWatcher)(nil)
