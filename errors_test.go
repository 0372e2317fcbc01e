package atom

import (
	"context"
	"errors"
	"testing"

	pkgerrors "github.com/pkg/errors"
)

func TestAbortError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AbortError
		want string
	}{
		{
			name: "with reason",
			err:  &AbortError{Op: KindUpdate, Reason: context.Canceled},
			want: "atom: update aborted: context canceled",
		},
		{
			name: "without reason",
			err:  &AbortError{Op: KindReaction},
			want: "atom: reaction aborted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAbortError_Is(t *testing.T) {
	err := &AbortError{Op: KindWait, Reason: context.DeadlineExceeded}

	if !errors.Is(err, ErrAborted) {
		t.Error("expected errors.Is(err, ErrAborted)")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("expected errors.Is to reach the reason")
	}
	if errors.Is(err, ErrNotSettled) {
		t.Error("expected abort not to match ErrNotSettled")
	}
}

func TestNewAbortError(t *testing.T) {
	reason := errors.New("operator requested stop")
	ctx, cancel := context.WithCancelCause(context.Background())
	cancel(reason)

	err := newAbortError(KindWait, ctx)

	var abort *AbortError
	if !errors.As(err, &abort) {
		t.Fatalf("expected *AbortError, got %T", err)
	}
	if abort.Op != KindWait {
		t.Errorf("expected op wait, got %s", abort.Op)
	}
	if !errors.Is(err, reason) {
		t.Errorf("expected cause %v, got %v", reason, abort.Reason)
	}
	if cause := pkgerrors.Cause(err); cause != error(abort) {
		t.Errorf("expected pkg/errors Cause to stop at the abort error, got %v", cause)
	}
}

func TestNewAbortError_PlainCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := newAbortError(KindUpdate, ctx)

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled reason, got %v", err)
	}
}

func TestReasonOf(t *testing.T) {
	if got := reasonOf(&AbortError{Reason: errors.New("gone")}); got != "gone" {
		t.Errorf("expected 'gone', got %q", got)
	}
	if got := reasonOf(errors.New("other")); got != "" {
		t.Errorf("expected empty reason, got %q", got)
	}
}
