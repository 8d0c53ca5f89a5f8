package service

import "context"

// DependencyPinger is an external dependency that can answer a liveness ping.
type DependencyPinger interface {
	// Name identifies the dependency in readiness payloads, e.g. "redis".
	Name() string

	// Addr is the dependency endpoint, used for logging.
	Addr() string

	// Ping performs a single round trip. It must honour ctx cancellation.
	Ping(ctx context.Context) error
}

// Readiness is the outcome of one dependency check.
type Readiness struct {
	Ready  bool
	Detail string
}

// ReadinessChecker reports whether the service can currently serve traffic.
type ReadinessChecker interface {
	CheckReady(ctx context.Context) Readiness

	// DependencyName keys the dependency status in readiness payloads.
	DependencyName() string
}

// LoadResult describes one completed busy-loop.
type LoadResult struct {
	DurationMs int
	Iterations int64
}

// LoadGenerator burns CPU for a requested wall-clock duration.
type LoadGenerator interface {
	Generate(durationMs int) (LoadResult, error)
}
