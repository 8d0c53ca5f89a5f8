package service

import (
	"context"
	"fmt"
	"time"

	domainservice "github.com/turtacn/obsdemo/internal/domain/service"
	"github.com/turtacn/obsdemo/pkg/logger"
)

// ReadinessAppService checks a single dependency on every call. Results are never cached
// and failed pings are not retried.
type ReadinessAppService struct {
	dep     domainservice.DependencyPinger
	timeout time.Duration
	log     logger.Logger
}

var _ domainservice.ReadinessChecker = (*ReadinessAppService)(nil)

// NewReadinessAppService creates the readiness checker. A zero timeout relies on the
// dependency client's own dial/read timeouts.
func NewReadinessAppService(dep domainservice.DependencyPinger, timeout time.Duration, log logger.Logger) *ReadinessAppService {
	return &ReadinessAppService{dep: dep, timeout: timeout, log: log}
}

// CheckReady pings the dependency once. Every failure, including a panic inside the
// client, is reported as not ready with a readable detail.
func (s *ReadinessAppService) CheckReady(ctx context.Context) (result domainservice.Readiness) {
	defer func() {
		if r := recover(); r != nil {
			result = domainservice.Readiness{Ready: false, Detail: fmt.Sprintf("%s check panicked: %v", s.dep.Name(), r)}
			s.log.Error(ctx, "Readiness check panicked", fmt.Errorf("%v", r), logger.String("dependency", s.dep.Name()))
		}
	}()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	if err := s.dep.Ping(ctx); err != nil {
		s.log.Warn(ctx, "Dependency not ready",
			logger.String("dependency", s.dep.Name()),
			logger.String("addr", s.dep.Addr()),
			logger.Duration("elapsed", time.Since(start)),
			logger.Error(err),
		)
		return domainservice.Readiness{Ready: false, Detail: err.Error()}
	}

	s.log.Debug(ctx, "Dependency ready",
		logger.String("dependency", s.dep.Name()),
		logger.Duration("elapsed", time.Since(start)),
	)
	return domainservice.Readiness{Ready: true}
}

// DependencyName is the key used for the dependency in readiness payloads.
func (s *ReadinessAppService) DependencyName() string {
	return s.dep.Name()
}
