package atom

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrAborted matches every abort error via errors.Is.
	ErrAborted = errors.New("atom: aborted")

	// ErrNotSettled is returned by Future.Result while the future is pending.
	ErrNotSettled = errors.New("atom: future not settled")
)

// AbortError rejects a queued operation whose context ended before its
// predicate held.
type AbortError struct {
	// Op is the kind of operation that was aborted.
	Op Kind

	// Reason is context.Cause of the operation's context.
	Reason error
}

func (e *AbortError) Error() string {
	if e.Reason == nil {
		return fmt.Sprintf("atom: %s aborted", e.Op)
	}
	return fmt.Sprintf("atom: %s aborted: %v", e.Op, e.Reason)
}

// Unwrap returns the abort reason.
func (e *AbortError) Unwrap() error {
	return e.Reason
}

// Is reports whether target is ErrAborted.
func (e *AbortError) Is(target error) bool {
	return target == ErrAborted
}

// newAbortError builds the abort error for an operation queued on ctx.
func newAbortError(op Kind, ctx context.Context) error {
	reason := context.Cause(ctx)
	if reason == nil {
		reason = ctx.Err()
	}
	return errors.WithStack(&AbortError{Op: op, Reason: reason})
}

// reasonOf returns the abort reason of err as a string, or "" if err carries
// none.
func reasonOf(err error) string {
	var abort *AbortError
	if errors.As(err, &abort) && abort.Reason != nil {
		return abort.Reason.Error()
	}
	return ""
}
