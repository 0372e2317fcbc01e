// Package testing provides test utilities and helpers for code built on atoms.
package testing

import (
	"context"
	"errors"
	"testing"
	"time"

	atom "github.com/omranjamal/sync-atom"
)

// WaitFor polls a condition until it returns true or timeout is reached.
// Returns true if the condition was met, false if timeout occurred.
func WaitFor(t *testing.T, timeout time.Duration, condition func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

// Await blocks until f settles, failing the test if timeout elapses first.
func Await[T any](t *testing.T, f *atom.Future[T], timeout time.Duration) (T, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	v, err := f.Get(ctx)
	if err != nil && !f.Settled() {
		t.Fatalf("future did not settle within %v", timeout)
	}
	return v, err
}

// RequireResolved fails the test unless f has already resolved, and returns
// its value.
func RequireResolved[T any](t *testing.T, f *atom.Future[T]) T {
	t.Helper()
	v, err := f.Result()
	if errors.Is(err, atom.ErrNotSettled) {
		t.Fatal("expected future to be resolved, still pending")
	}
	if err != nil {
		t.Fatalf("expected future to be resolved, got error: %v", err)
	}
	return v
}

// RequirePending fails the test if f has settled.
func RequirePending[T any](t *testing.T, f *atom.Future[T]) {
	t.Helper()
	if v, err := f.Result(); !errors.Is(err, atom.ErrNotSettled) {
		t.Fatalf("expected future to be pending, settled with %v (err %v)", v, err)
	}
}

// RequireAborted waits up to timeout for f to be rejected with an abort error
// and returns it.
func RequireAborted[T any](t *testing.T, f *atom.Future[T], timeout time.Duration) *atom.AbortError {
	t.Helper()
	_, err := Await(t, f, timeout)
	var abort *atom.AbortError
	if !errors.As(err, &abort) {
		t.Fatalf("expected abort error, got %v", err)
	}
	return abort
}

// RequireState fails the test if the atom's state does not satisfy check.
func RequireState[T any](t *testing.T, a *atom.Atom[T], check func(T) bool) {
	t.Helper()
	if s := a.State(); !check(s) {
		t.Fatalf("state check failed: %+v", s)
	}
}

// RequireQueues fails the test unless the atom holds exactly pending queued
// updates and blocked queued waiters.
func RequireQueues[T any](t *testing.T, a *atom.Atom[T], pending, blocked int) {
	t.Helper()
	if got := a.Pending(); got != pending {
		t.Fatalf("expected %d pending updates, got %d", pending, got)
	}
	if got := a.Blocked(); got != blocked {
		t.Fatalf("expected %d blocked waiters, got %d", blocked, got)
	}
}
