package service

import (
	"errors"
	"fmt"
	"math"
	"time"

	domainservice "github.com/turtacn/obsdemo/internal/domain/service"
)

var (
	// ErrInvalidDuration is returned for negative durations.
	ErrInvalidDuration = errors.New("duration must not be negative")

	// ErrDurationTooLong is returned when a cap is configured and exceeded.
	ErrDurationTooLong = errors.New("duration exceeds the configured maximum")
)

// maxDurationMs is the longest duration representable as a time.Duration.
const maxDurationMs = math.MaxInt64 / int64(time.Millisecond)

// LoadAppService spins the calling goroutine to generate CPU load.
type LoadAppService struct {
	maxMs int
	now   func() time.Time
}

var _ domainservice.LoadGenerator = (*LoadAppService)(nil)

// NewLoadAppService creates a load generator. maxMs == 0 leaves the duration unbounded,
// which lets a caller hold a goroutine for as long as it asks.
func NewLoadAppService(maxMs int) *LoadAppService {
	return &LoadAppService{maxMs: maxMs, now: time.Now}
}

// MaxMs returns the configured cap, 0 meaning none.
func (s *LoadAppService) MaxMs() int {
	return s.maxMs
}

// Generate busy-loops until at least durationMs of wall-clock time has passed and
// reports how many iterations ran. It never sleeps or yields voluntarily.
func (s *LoadAppService) Generate(durationMs int) (domainservice.LoadResult, error) {
	if durationMs < 0 {
		return domainservice.LoadResult{}, fmt.Errorf("%w: %d", ErrInvalidDuration, durationMs)
	}
	if s.maxMs > 0 && durationMs > s.maxMs {
		return domainservice.LoadResult{}, fmt.Errorf("%w: %d > %d", ErrDurationTooLong, durationMs, s.maxMs)
	}
	if int64(durationMs) > maxDurationMs {
		return domainservice.LoadResult{}, fmt.Errorf("%w: %d > %d", ErrDurationTooLong, durationMs, maxDurationMs)
	}

	end := s.now().Add(time.Duration(durationMs) * time.Millisecond)
	var iterations int64
	for s.now().Before(end) {
		iterations++
	}

	return domainservice.LoadResult{DurationMs: durationMs, Iterations: iterations}, nil
}
