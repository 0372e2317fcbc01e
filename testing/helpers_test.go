package testing

import (
	"context"
	"errors"
	"testing"
	"time"

	atom "github.com/omranjamal/sync-atom"
)

func TestWaitFor(t *testing.T) {
	t.Run("condition met immediately", func(t *testing.T) {
		if !WaitFor(t, 100*time.Millisecond, func() bool { return true }) {
			t.Error("expected WaitFor to return true")
		}
	})

	t.Run("condition never met", func(t *testing.T) {
		if WaitFor(t, 50*time.Millisecond, func() bool { return false }) {
			t.Error("expected WaitFor to return false")
		}
	})
}

func TestRequireResolved(t *testing.T) {
	a := atom.New(1)
	f := a.Set(context.Background(), atom.Always[int](), 2)

	if v := RequireResolved(t, f); v != 2 {
		t.Errorf("expected 2, got %d", v)
	}
}

func TestRequirePending(t *testing.T) {
	a := atom.New(1)
	f := a.WaitFor(context.Background(), atom.Equal(5))

	RequirePending(t, f)
	RequireQueues(t, a, 0, 1)
}

func TestRequireAborted(t *testing.T) {
	a := atom.New("idle")
	ctx, cancel := context.WithCancelCause(context.Background())
	reason := errors.New("drained")

	f := a.Set(ctx, atom.Equal("running"), "done")
	cancel(reason)

	abort := RequireAborted(t, f, time.Second)
	if abort.Op != atom.KindUpdate {
		t.Errorf("expected op update, got %s", abort.Op)
	}
	if !errors.Is(abort.Reason, reason) {
		t.Errorf("expected reason %v, got %v", reason, abort.Reason)
	}
	if !WaitFor(t, time.Second, func() bool { return a.Pending() == 0 }) {
		t.Error("expected aborted update to leave the queue")
	}
}

func TestAwait(t *testing.T) {
	a := atom.New(0)
	f := a.WaitFor(context.Background(), atom.Equal(3))

	go func() {
		time.Sleep(10 * time.Millisecond)
		a.Set(context.Background(), atom.Always[int](), 3)
	}()

	v, err := Await(t, f, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 3 {
		t.Errorf("expected 3, got %d", v)
	}
	RequireState(t, a, func(s int) bool { return s == 3 })
}
