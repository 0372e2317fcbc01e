package atom

import "github.com/zoobzio/capitan"

// Update signals.
var (
	// UpdateApplied is emitted when an update commits a new state.
	UpdateApplied = capitan.NewSignal(
		"atom.update.applied",
		"Update committed",
	)

	// UpdateQueued is emitted when an update is queued behind its predicate.
	UpdateQueued = capitan.NewSignal(
		"atom.update.queued",
		"Update queued until predicate holds",
	)

	// UpdateAborted is emitted when a queued update is dropped by its context.
	UpdateAborted = capitan.NewSignal(
		"atom.update.aborted",
		"Queued update aborted",
	)
)

// Wait signals. These cover both WaitFor futures and React reactions.
var (
	// WaitQueued is emitted when a waiter is queued behind its predicate.
	WaitQueued = capitan.NewSignal(
		"atom.wait.queued",
		"Waiter queued until predicate holds",
	)

	// WaitReleased is emitted when a commit satisfies a queued waiter.
	WaitReleased = capitan.NewSignal(
		"atom.wait.released",
		"Queued waiter released",
	)

	// WaitAborted is emitted when a queued waiter is dropped by its context.
	WaitAborted = capitan.NewSignal(
		"atom.wait.aborted",
		"Queued waiter aborted",
	)
)

// Feed lifecycle signals.
var (
	// FeedStarted is emitted when a Feed begins watching.
	FeedStarted = capitan.NewSignal(
		"atom.feed.started",
		"Feed watching started",
	)

	// FeedStopped is emitted when a Feed stops watching.
	FeedStopped = capitan.NewSignal(
		"atom.feed.stopped",
		"Feed watching stopped",
	)

	// FeedDecodeFailed is emitted when a payload cannot be decoded.
	FeedDecodeFailed = capitan.NewSignal(
		"atom.feed.decode.failed",
		"Feed payload decode failed",
	)

	// FeedValidationFailed is emitted when a decoded value fails validation.
	FeedValidationFailed = capitan.NewSignal(
		"atom.feed.validation.failed",
		"Feed value validation failed",
	)
)
