package atom

// Kind identifies the operation behind a queued record.
type Kind int32

const (
	// KindUpdate is a conditional update from Update or Set.
	KindUpdate Kind = iota

	// KindWait is a future-mode wait from WaitFor or WaitTimeout.
	KindWait

	// KindReaction is a reaction-mode wait from React.
	KindReaction
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindUpdate:
		return "update"
	case KindWait:
		return "wait"
	case KindReaction:
		return "reaction"
	default:
		return "unknown"
	}
}
