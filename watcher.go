package atom

import "context"

// Watcher observes a source and emits raw payloads on a channel.
// Implementations must emit the current value immediately upon Watch() being
// called so a Feed can seed its atom.
type Watcher interface {
	// Watch begins observing the source and returns a channel that emits
	// raw bytes when changes occur. The channel is closed when the context
	// is canceled or an unrecoverable error occurs.
	Watch(ctx context.Context) (<-chan []byte, error)
}
