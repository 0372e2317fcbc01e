package atom

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// DefaultName is the name reported in signals when an Atom is not Named.
const DefaultName = "atom"

// Predicate gates an operation on the current state.
// Predicates must be pure and must not panic.
type Predicate[T any] func(T) bool

// Atom is a mutable state cell whose reads, writes and waits can be gated on
// predicates over the state.
//
// Every operation is funnelled through a serial work list. The goroutine that
// finds the list idle drains it, so an operation issued with no other activity
// on the atom completes before it returns. Operations issued from inside a
// predicate, updater, effect, reaction or future subscriber run once the
// current commit and its reconciliation have finished. Such callbacks must
// not block on the futures of those operations with Future.Get, since the
// goroutine blocked in Get is the one that would run them. Use
// Future.Subscribe instead.
type Atom[T any] struct {
	name    string
	clock   clockz.Clock
	metrics MetricsProvider

	// mu guards the fields below. It is never held while user code runs.
	// pending and blocked are only mutated by the draining goroutine, which
	// may read them without the lock.
	mu      sync.Mutex
	state   T
	pending []*update[T]
	blocked []*waiter[T]
	tasks   []func()
	running bool
}

// update is a queued write waiting for its predicate to hold.
type update[T any] struct {
	ctx      context.Context
	when     Predicate[T]
	fn       func(T) T
	effect   func(T)
	future   *Future[T]
	queuedAt time.Time
	stop     func() bool
}

// waiter is a queued read-only notification waiting for its predicate to hold.
type waiter[T any] struct {
	ctx      context.Context
	kind     Kind
	when     Predicate[T]
	notify   func(T)
	abort    func(error)
	queuedAt time.Time
	stop     func() bool
}

// UpdateOption configures a single Update or Set call.
type UpdateOption[T any] func(*update[T])

// WithEffect registers fn to run with the committed state right after the
// update commits and before its future resolves. It runs exactly once.
func WithEffect[T any](fn func(T)) UpdateOption[T] {
	return func(u *update[T]) {
		u.effect = fn
	}
}

// New creates an Atom holding initial.
//
// Example:
//
//	counter := atom.New(0).Named("counter")
//	counter.Update(ctx, atom.Always[int](), func(n int) int { return n + 1 })
func New[T any](initial T) *Atom[T] {
	return &Atom[T]{
		name:  DefaultName,
		clock: clockz.RealClock,
		state: initial,
	}
}

// -----------------------------------------------------------------------------
// Chainable Instance Configuration
// -----------------------------------------------------------------------------

// Named sets the name reported in signals. Must be called before first use.
func (a *Atom[T]) Named(name string) *Atom[T] {
	a.name = name
	return a
}

// Clock sets the clock used for queue timestamps and WaitTimeout.
// Use this with clockz.FakeClock for deterministic tests.
// Must be called before first use.
func (a *Atom[T]) Clock(clock clockz.Clock) *Atom[T] {
	a.clock = clock
	return a
}

// Metrics sets a metrics provider for observability integration.
// Must be called before first use.
func (a *Atom[T]) Metrics(provider MetricsProvider) *Atom[T] {
	a.metrics = provider
	return a
}

// -----------------------------------------------------------------------------
// Inspection
// -----------------------------------------------------------------------------

// Name returns the atom's name.
func (a *Atom[T]) Name() string {
	return a.name
}

// State returns a snapshot of the current state.
func (a *Atom[T]) State() T {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Pending returns the number of queued updates.
func (a *Atom[T]) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.pending)
}

// Blocked returns the number of queued waiters and reactions.
func (a *Atom[T]) Blocked() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.blocked)
}

// -----------------------------------------------------------------------------
// Operations
// -----------------------------------------------------------------------------

// Update commits fn(state) once when holds. If when already holds the update
// applies before Update returns; otherwise it is queued behind earlier
// updates and applied by the first commit that satisfies it.
//
// The returned future resolves with the committed state. If ctx ends while
// the update is still queued, the update is dropped and the future is
// rejected with an *AbortError carrying context.Cause(ctx). A ctx that is
// already done when when does not hold rejects without queueing.
func (a *Atom[T]) Update(ctx context.Context, when Predicate[T], fn func(T) T, opts ...UpdateOption[T]) *Future[T] {
	u := &update[T]{
		ctx:    ctx,
		when:   when,
		fn:     fn,
		future: newFuture[T](),
	}
	for _, opt := range opts {
		opt(u)
	}
	a.run(func() { a.submit(u) })
	return u.future
}

// Set is Update with a literal replacement value.
func (a *Atom[T]) Set(ctx context.Context, when Predicate[T], next T, opts ...UpdateOption[T]) *Future[T] {
	return a.Update(ctx, when, func(T) T { return next }, opts...)
}

// WaitFor returns a future that resolves with the state once when holds.
// If ctx ends first the future is rejected with an *AbortError.
func (a *Atom[T]) WaitFor(ctx context.Context, when Predicate[T]) *Future[T] {
	f := newFuture[T]()
	w := &waiter[T]{
		ctx:    ctx,
		kind:   KindWait,
		when:   when,
		notify: f.resolve,
		abort:  f.reject,
	}
	a.run(func() { a.block(w) })
	return f
}

// WaitTimeout is WaitFor with a deadline measured on the atom's clock.
func (a *Atom[T]) WaitTimeout(ctx context.Context, when Predicate[T], d time.Duration) *Future[T] {
	ctx, cancel := a.clock.WithTimeout(ctx, d)
	f := a.WaitFor(ctx, when)
	f.Subscribe(func(T, error) { cancel() })
	return f
}

// React runs reaction with the state once when holds. If ctx ends first the
// reaction is dropped silently.
func (a *Atom[T]) React(ctx context.Context, when Predicate[T], reaction func(T)) {
	w := &waiter[T]{
		ctx:    ctx,
		kind:   KindReaction,
		when:   when,
		notify: reaction,
	}
	a.run(func() { a.block(w) })
}

// -----------------------------------------------------------------------------
// Work list
// -----------------------------------------------------------------------------

// run enqueues task and drains the work list unless another goroutine is
// already draining it.
func (a *Atom[T]) run(task func()) {
	a.mu.Lock()
	a.tasks = append(a.tasks, task)
	if a.running {
		a.mu.Unlock()
		return
	}
	a.running = true

	drained := false
	defer func() {
		// A panicking callback leaves the remaining tasks for the next drainer.
		if !drained {
			a.mu.Lock()
			a.running = false
			a.mu.Unlock()
		}
	}()

	for len(a.tasks) > 0 {
		next := a.tasks[0]
		a.tasks[0] = nil
		a.tasks = a.tasks[1:]
		a.mu.Unlock()
		next()
		a.mu.Lock()
	}
	a.tasks = nil
	a.running = false
	drained = true
	a.mu.Unlock()
}

// submit applies u now or queues it.
func (a *Atom[T]) submit(u *update[T]) {
	if u.when(a.state) {
		a.apply(u)
		return
	}
	if u.ctx.Err() != nil {
		a.abortUpdate(u)
		return
	}

	u.queuedAt = a.clock.Now()
	a.mu.Lock()
	a.pending = append(a.pending, u)
	pending := len(a.pending)
	a.mu.Unlock()

	u.stop = context.AfterFunc(u.ctx, func() {
		a.run(func() { a.cancelUpdate(u) })
	})

	capitan.Emit(u.ctx, UpdateQueued,
		KeyAtom.Field(a.name),
		KeyPending.Field(pending),
	)
	if a.metrics != nil {
		a.metrics.OnQueued(KindUpdate)
	}
}

// apply commits u and then reconciles. Each commit drains at most one
// pending update, which becomes the next iteration, and releases every
// blocked waiter satisfied by the committed state.
func (a *Atom[T]) apply(u *update[T]) {
	for u != nil {
		next := u.fn(a.state)
		a.mu.Lock()
		a.state = next
		a.mu.Unlock()

		if u.effect != nil {
			u.effect(next)
		}
		u.future.resolve(next)

		capitan.Emit(u.ctx, UpdateApplied,
			KeyAtom.Field(a.name),
			KeyPending.Field(len(a.pending)),
			KeyBlocked.Field(len(a.blocked)),
		)
		if a.metrics != nil {
			a.metrics.OnCommit()
		}

		u = a.takeReady(next)
		a.release(next)
	}
}

// takeReady removes and returns the oldest pending update whose predicate
// holds for s, or nil.
func (a *Atom[T]) takeReady(s T) *update[T] {
	for i, p := range a.pending {
		if !p.when(s) {
			continue
		}
		a.mu.Lock()
		a.pending = slices.Delete(a.pending, i, i+1)
		a.mu.Unlock()

		p.stop()
		if a.metrics != nil {
			a.metrics.OnReleased(KindUpdate, a.clock.Since(p.queuedAt))
		}
		return p
	}
	return nil
}

// release notifies every blocked waiter whose predicate holds for s.
func (a *Atom[T]) release(s T) {
	if len(a.blocked) == 0 {
		return
	}

	var ready []*waiter[T]
	remaining := make([]*waiter[T], 0, len(a.blocked))
	for _, w := range a.blocked {
		if w.when(s) {
			ready = append(ready, w)
		} else {
			remaining = append(remaining, w)
		}
	}
	if len(ready) == 0 {
		return
	}

	a.mu.Lock()
	a.blocked = remaining
	a.mu.Unlock()

	for _, w := range ready {
		w.stop()
		queuedFor := a.clock.Since(w.queuedAt)
		capitan.Emit(w.ctx, WaitReleased,
			KeyAtom.Field(a.name),
			KeyOp.Field(w.kind.String()),
			KeyQueuedFor.Field(queuedFor),
		)
		if a.metrics != nil {
			a.metrics.OnReleased(w.kind, queuedFor)
		}
		w.notify(s)
	}
}

// block notifies w now or queues it.
func (a *Atom[T]) block(w *waiter[T]) {
	if s := a.state; w.when(s) {
		w.notify(s)
		return
	}
	if w.ctx.Err() != nil {
		a.abortWaiter(w)
		return
	}

	w.queuedAt = a.clock.Now()
	a.mu.Lock()
	a.blocked = append(a.blocked, w)
	blocked := len(a.blocked)
	a.mu.Unlock()

	w.stop = context.AfterFunc(w.ctx, func() {
		a.run(func() { a.cancelWaiter(w) })
	})

	capitan.Emit(w.ctx, WaitQueued,
		KeyAtom.Field(a.name),
		KeyOp.Field(w.kind.String()),
		KeyBlocked.Field(blocked),
	)
	if a.metrics != nil {
		a.metrics.OnQueued(w.kind)
	}
}

// -----------------------------------------------------------------------------
// Cancellation
// -----------------------------------------------------------------------------

// cancelUpdate drops u if it is still queued.
func (a *Atom[T]) cancelUpdate(u *update[T]) {
	a.mu.Lock()
	i := slices.Index(a.pending, u)
	if i < 0 {
		a.mu.Unlock()
		return
	}
	a.pending = slices.Delete(a.pending, i, i+1)
	a.mu.Unlock()

	a.abortUpdate(u)
}

func (a *Atom[T]) abortUpdate(u *update[T]) {
	err := newAbortError(KindUpdate, u.ctx)
	capitan.Emit(u.ctx, UpdateAborted,
		KeyAtom.Field(a.name),
		KeyReason.Field(reasonOf(err)),
	)
	if a.metrics != nil {
		a.metrics.OnAborted(KindUpdate)
	}
	u.future.reject(err)
}

// cancelWaiter drops w if it is still queued.
func (a *Atom[T]) cancelWaiter(w *waiter[T]) {
	a.mu.Lock()
	i := slices.Index(a.blocked, w)
	if i < 0 {
		a.mu.Unlock()
		return
	}
	a.blocked = slices.Delete(a.blocked, i, i+1)
	a.mu.Unlock()

	a.abortWaiter(w)
}

func (a *Atom[T]) abortWaiter(w *waiter[T]) {
	err := newAbortError(w.kind, w.ctx)
	capitan.Emit(w.ctx, WaitAborted,
		KeyAtom.Field(a.name),
		KeyOp.Field(w.kind.String()),
		KeyReason.Field(reasonOf(err)),
	)
	if a.metrics != nil {
		a.metrics.OnAborted(w.kind)
	}
	if w.abort != nil {
		w.abort(err)
	}
}
