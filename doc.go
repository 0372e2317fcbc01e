// Package atom provides a state cell whose reads, writes and waits are gated
// on predicates over the state.
//
// An Atom holds a single value of any type. Callers do not lock it; they
// describe when an operation may proceed and receive a Future that settles
// once it has.
//
// # Conditional updates
//
// Update commits fn(state) once a predicate holds:
//
//	phase := atom.New("idle").Named("job")
//
//	started := phase.Set(ctx, atom.Equal("idle"), "running")
//	finished := phase.Set(ctx, atom.Equal("running"), "done",
//	    atom.WithEffect(func(s string) { log.Printf("job %s", s) }),
//	)
//
// If the predicate holds when Update is called the update applies before
// Update returns. Otherwise it is queued. After every commit the atom
// reconciles: it applies at most one queued update whose predicate now holds,
// oldest first, and releases every waiter whose predicate now holds. The
// one-update limit keeps two writers from committing off the same base
// state; waiters only observe, so all of them are released together.
//
// # Waiting
//
// WaitFor returns a future that resolves with the state once a predicate
// holds. React runs a callback instead:
//
//	done := phase.WaitFor(ctx, atom.Equal("done"))
//	state, err := done.Get(ctx)
//
//	phase.React(ctx, atom.Equal("done"), func(string) { close(finishedCh) })
//
// # Cancellation
//
// Every operation takes a context. If the context ends while the operation
// is queued, the operation is dropped and its future is rejected with an
// *AbortError carrying context.Cause(ctx); errors.Is(err, atom.ErrAborted)
// reports true. Operations that already applied are unaffected. WaitTimeout
// composes a deadline measured on the atom's clockz.Clock.
//
// # Ordering
//
// All operations on an Atom run through one serial work list, so commits are
// totally ordered and no lock is held while predicates, updaters, effects or
// reactions run. Operations started from inside those callbacks run after the
// current commit has been reconciled.
//
// # Observability
//
// The atom emits capitan signals (UpdateApplied, UpdateQueued, WaitReleased,
// ...) and accepts a MetricsProvider:
//
//	capitan.Hook(atom.UpdateAborted, func(_ context.Context, e *capitan.Event) {
//	    reason, _ := atom.KeyReason.From(e)
//	    log.Printf("update aborted: %s", reason)
//	})
//
// # Feeds
//
// A Feed commits payloads from a Watcher into an atom, decoding them with a
// Codec and rejecting values whose Validate method fails:
//
//	cfg := atom.New(Config{}).Named("config")
//	feed := atom.NewFeed(atom.NewFileWatcher(path), cfg).Codec(atom.CodecFor(path))
//	if err := feed.Start(ctx); err != nil {
//	    log.Printf("initial config rejected: %v", err)
//	}
package atom
