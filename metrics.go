package atom

import "time"

// MetricsProvider allows integration with metrics systems like Prometheus, StatsD, etc.
// Implement this interface to receive callbacks on key atom events.
type MetricsProvider interface {
	// OnCommit is called after every commit.
	OnCommit()

	// OnQueued is called when an operation is queued behind its predicate.
	OnQueued(kind Kind)

	// OnReleased is called when a queued operation's predicate holds.
	// Duration is the time spent queued.
	OnReleased(kind Kind, queued time.Duration)

	// OnAborted is called when an operation is dropped by its context.
	OnAborted(kind Kind)
}

// NoOpMetricsProvider is a no-op implementation of MetricsProvider.
// Use this as an embedded type to implement only the methods you need.
type NoOpMetricsProvider struct{}

func (NoOpMetricsProvider) OnCommit()                          {}
func (NoOpMetricsProvider) OnQueued(_ Kind)                    {}
func (NoOpMetricsProvider) OnReleased(_ Kind, _ time.Duration) {}
func (NoOpMetricsProvider) OnAborted(_ Kind)                   {}
