package atom

import (
	"context"
	"sync"
)

// Future is the eventual outcome of an Update, Set or WaitFor call.
// It settles exactly once, either with a state value or with an error.
type Future[T any] struct {
	done chan struct{}

	mu      sync.Mutex
	settled bool
	value   T
	err     error
	subs    []func(T, error)
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Done returns a channel that is closed once the future settles.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Get blocks until the future settles or ctx ends.
// If ctx ends first, Get returns ctx.Err() and the future is left untouched.
//
// Do not call Get from a predicate, updater, effect, reaction or subscriber
// on a future returned by an operation on the same atom. That operation only
// runs after the callback returns, so Get waits until ctx ends. Use
// Subscribe there instead.
func (f *Future[T]) Get(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Settled reports whether the future has settled.
func (f *Future[T]) Settled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.settled
}

// Result returns the outcome without blocking, or ErrNotSettled.
func (f *Future[T]) Result() (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.settled {
		var zero T
		return zero, ErrNotSettled
	}
	return f.value, f.err
}

// Subscribe registers fn to receive the outcome.
//
// If the future has already settled fn runs immediately on the caller's
// goroutine. Otherwise it runs on the goroutine that settles the future,
// after the value is visible through Done and Result.
func (f *Future[T]) Subscribe(fn func(T, error)) {
	f.mu.Lock()
	if f.settled {
		v, err := f.value, f.err
		f.mu.Unlock()
		fn(v, err)
		return
	}
	f.subs = append(f.subs, fn)
	f.mu.Unlock()
}

func (f *Future[T]) resolve(v T) {
	f.settle(v, nil)
}

func (f *Future[T]) reject(err error) {
	var zero T
	f.settle(zero, err)
}

// settle records the outcome once; later calls are ignored.
func (f *Future[T]) settle(v T, err error) bool {
	f.mu.Lock()
	if f.settled {
		f.mu.Unlock()
		return false
	}
	f.settled = true
	f.value = v
	f.err = err
	subs := f.subs
	f.subs = nil
	close(f.done)
	f.mu.Unlock()

	for _, fn := range subs {
		fn(v, err)
	}
	return true
}
