package atom

import "github.com/zoobzio/capitan"

// Field keys for Atom and Feed events.
var (
	// KeyAtom is the name of the atom.
	KeyAtom = capitan.NewStringKey("atom")

	// KeyOp is the kind of queued operation.
	KeyOp = capitan.NewStringKey("op")

	// KeyPending is the number of queued updates.
	KeyPending = capitan.NewIntKey("pending")

	// KeyBlocked is the number of queued waiters.
	KeyBlocked = capitan.NewIntKey("blocked")

	// KeyReason is the abort reason.
	KeyReason = capitan.NewStringKey("reason")

	// KeyError is the error message when a feed payload is rejected.
	KeyError = capitan.NewStringKey("error")

	// KeyQueuedFor is how long a record waited before release.
	KeyQueuedFor = capitan.NewDurationKey("queued_for")

	// KeyDebounce is the configured feed debounce duration.
	KeyDebounce = capitan.NewDurationKey("debounce")

	// KeyContentType is the content type of the feed codec.
	KeyContentType = capitan.NewStringKey("content_type")
)
