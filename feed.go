package atom

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// DefaultDebounce is the default debounce duration for feed changes.
const DefaultDebounce = 100 * time.Millisecond

// validate is the shared validator instance.
var validate = validator.New()

// Validator may be implemented by state types fed from a Watcher for checks
// that struct tags cannot express. It runs after the `validate` tags pass.
// A decoded value that fails either check is never committed.
type Validator interface {
	Validate() error
}

// Feed commits values decoded from a Watcher into an Atom.
//
// Every accepted payload is committed unconditionally, so waiters and
// pending updates on the atom are reconciled against it like any other
// commit. Rejected payloads leave the atom untouched.
type Feed[T any] struct {
	watcher  Watcher
	atom     *Atom[T]
	codec    Codec
	merge    func(prev, next T) T
	debounce time.Duration
	syncMode bool
	clock    clockz.Clock
	onStop   func(error)

	lastError    atomic.Pointer[error]
	errorHistory *ring[error]

	mu      sync.Mutex
	started bool

	// For sync mode: channel to receive changes
	changes <-chan []byte
}

// NewFeed creates a Feed that commits payloads from watcher into a.
//
// Example:
//
//	cfg := atom.New(Config{}).Named("config")
//	feed := atom.NewFeed(atom.NewFileWatcher("/etc/app/config.yaml"), cfg).
//	    Codec(atom.YAMLCodec{})
//	if err := feed.Start(ctx); err != nil {
//	    log.Printf("initial config rejected: %v", err)
//	}
func NewFeed[T any](watcher Watcher, a *Atom[T]) *Feed[T] {
	return &Feed[T]{
		watcher:  watcher,
		atom:     a,
		codec:    JSONCodec{},
		debounce: DefaultDebounce,
		clock:    clockz.RealClock,
	}
}

// -----------------------------------------------------------------------------
// Chainable Instance Configuration
// -----------------------------------------------------------------------------

// Codec sets the codec for decoding payloads.
// Default: JSONCodec. Must be called before Start().
func (f *Feed[T]) Codec(codec Codec) *Feed[T] {
	f.codec = codec
	return f
}

// Merge sets a function combining the current state with each decoded value.
// Default: the decoded value replaces the state. Must be called before Start().
func (f *Feed[T]) Merge(fn func(prev, next T) T) *Feed[T] {
	f.merge = fn
	return f
}

// Debounce sets the debounce duration for change processing.
// Changes arriving within this duration are coalesced into a single commit.
// Default: 100ms. Must be called before Start().
func (f *Feed[T]) Debounce(d time.Duration) *Feed[T] {
	f.debounce = d
	return f
}

// SyncMode enables synchronous processing for testing.
// In sync mode only the initial value is processed by Start; use Process
// for each subsequent value. Must be called before Start().
func (f *Feed[T]) SyncMode() *Feed[T] {
	f.syncMode = true
	return f
}

// Clock sets a custom clock for the debounce timer.
// Must be called before Start().
func (f *Feed[T]) Clock(clock clockz.Clock) *Feed[T] {
	f.clock = clock
	return f
}

// ErrorHistorySize sets the number of recent errors to retain.
// Use 0 (default) to only retain the most recent error via LastError().
// Must be called before Start().
func (f *Feed[T]) ErrorHistorySize(n int) *Feed[T] {
	f.errorHistory = newRing[error](n)
	return f
}

// OnStop sets a callback invoked when the feed stops watching, with the last
// error or nil. Must be called before Start().
func (f *Feed[T]) OnStop(fn func(error)) *Feed[T] {
	f.onStop = fn
	return f
}

// LastError returns the last rejection, or nil if the last payload committed.
func (f *Feed[T]) LastError() error {
	ptr := f.lastError.Load()
	if ptr == nil {
		return nil
	}
	return *ptr
}

// ErrorHistory returns recent rejections, oldest first.
// Returns nil if error history is not enabled.
func (f *Feed[T]) ErrorHistory() []error {
	return f.errorHistory.all()
}

// Start begins watching. It blocks until the first payload is processed and
// returns its rejection error, if any, while continuing to watch.
//
// Start can only be called once. Subsequent calls return an error.
func (f *Feed[T]) Start(ctx context.Context) error {
	f.mu.Lock()
	if f.started {
		f.mu.Unlock()
		return errors.New("feed already started")
	}
	f.started = true
	f.mu.Unlock()

	capitan.Emit(ctx, FeedStarted,
		KeyAtom.Field(f.atom.Name()),
		KeyDebounce.Field(f.debounce),
		KeyContentType.Field(f.codec.ContentType()),
	)

	changes, err := f.watcher.Watch(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to start watcher")
	}

	var initialErr error
	select {
	case <-ctx.Done():
		return ctx.Err()
	case raw, ok := <-changes:
		if !ok {
			return errors.New("watcher closed before emitting initial value")
		}
		initialErr = f.process(ctx, raw)
	}

	if f.syncMode {
		f.changes = changes
		return initialErr
	}

	go f.watch(ctx, changes)

	return initialErr
}

// Process reads and processes the next payload from the watcher.
// This is only available in sync mode and is used for deterministic testing.
// Returns false if no payload is available or the channel is closed.
func (f *Feed[T]) Process(ctx context.Context) bool {
	if !f.syncMode {
		return false
	}

	select {
	case raw, ok := <-f.changes:
		if !ok {
			return false
		}
		_ = f.process(ctx, raw) //nolint:errcheck // Errors stored via setError
		return true
	default:
		return false
	}
}

// process decodes, validates and commits a single payload.
func (f *Feed[T]) process(ctx context.Context, raw []byte) error {
	var next T
	if err := f.codec.Unmarshal(raw, &next); err != nil {
		f.setError(err)
		capitan.Emit(ctx, FeedDecodeFailed,
			KeyAtom.Field(f.atom.Name()),
			KeyError.Field(err.Error()),
		)
		return errors.Wrap(err, "decode failed")
	}

	if err := check(next); err != nil {
		f.setError(err)
		capitan.Emit(ctx, FeedValidationFailed,
			KeyAtom.Field(f.atom.Name()),
			KeyError.Field(err.Error()),
		)
		return errors.Wrap(err, "validation failed")
	}

	fn := func(T) T { return next }
	if f.merge != nil {
		fn = func(prev T) T { return f.merge(prev, next) }
	}
	f.atom.Update(ctx, Always[T](), fn)

	f.lastError.Store(nil)
	f.errorHistory.clear()
	return nil
}

// check runs struct tag validation on v, then its Validate method if it has
// one. Values that are not structs or struct pointers skip the tag check.
func check(v any) error {
	if err := validate.Struct(v); err != nil {
		var invalid *validator.InvalidValidationError
		if !errors.As(err, &invalid) {
			return err
		}
	}
	if vv, ok := v.(Validator); ok {
		return vv.Validate()
	}
	return nil
}

// setError stores an error atomically and adds it to the error history.
func (f *Feed[T]) setError(err error) {
	e := err
	f.lastError.Store(&e)
	f.errorHistory.push(err)
}

// watch processes changes from the watcher channel with debouncing.
func (f *Feed[T]) watch(ctx context.Context, changes <-chan []byte) {
	defer func() {
		capitan.Emit(ctx, FeedStopped,
			KeyAtom.Field(f.atom.Name()),
		)
		if f.onStop != nil {
			f.onStop(f.LastError())
		}
	}()

	var (
		timer      clockz.Timer
		pending    []byte
		hasPending bool
	)

	for {
		var timerC <-chan time.Time
		if timer != nil {
			timerC = timer.C()
		}

		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case raw, ok := <-changes:
			if !ok {
				if hasPending {
					_ = f.process(ctx, pending) //nolint:errcheck // Errors stored via setError
				}
				return
			}
			pending = raw
			hasPending = true

			if timer == nil {
				timer = f.clock.NewTimer(f.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C():
					default:
					}
				}
				timer.Reset(f.debounce)
			}

		case <-timerC:
			if hasPending {
				_ = f.process(ctx, pending) //nolint:errcheck // Errors stored via setError
				hasPending = false
			}
		}
	}
}
