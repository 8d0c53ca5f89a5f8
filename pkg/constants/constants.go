// Package constants defines shared constants for the observability demo service.
package constants

import "time"

// ================================================================================
// Service Identity
// ================================================================================

const (
	// ServiceName is the name reported in logs and traces
	ServiceName = "obsdemo-api"

	// EnvPrefix is the prefix for configuration environment variables
	EnvPrefix = "OBSDEMO"
)

// ================================================================================
// HTTP Metrics
// ================================================================================

const (
	// MetricHTTPRequestsTotal counts completed requests by method, path and status code
	MetricHTTPRequestsTotal = "http_requests_total"

	// MetricHTTPRequestDuration observes request latency in seconds by path
	MetricHTTPRequestDuration = "http_request_duration_seconds"

	LabelMethod     = "method"
	LabelPath       = "path"
	LabelStatusCode = "status_code"

	// PathLabelRaw labels requests with the raw URL path
	PathLabelRaw = "raw"

	// PathLabelRoute labels requests with the matched route template
	PathLabelRoute = "route"

	// UnmatchedRouteLabel is used in route mode when no route matched
	UnmatchedRouteLabel = "not_found"
)

// ================================================================================
// Defaults
// ================================================================================

const (
	DefaultHTTPHost        = "0.0.0.0"
	DefaultHTTPPort        = 8000
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultRedisHost        = "localhost"
	DefaultRedisPort        = 6379
	DefaultRedisDialTimeout = 2 * time.Second
	DefaultRedisReadTimeout = 2 * time.Second

	// DefaultWorkMs is the busy-loop duration when /work has no ms parameter
	DefaultWorkMs = 50

	DefaultSamplingRate = 1.0
)

// ================================================================================
// Readiness
// ================================================================================

const (
	StatusOK       = "ok"
	StatusReady    = "ready"
	StatusNotReady = "not_ready"
	StatusDone     = "done"
	StatusError    = "error"
)

// ================================================================================
// Logging
// ================================================================================

// LogLevel represents the severity level of log messages
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
	LogLevelFatal LogLevel = "fatal"
)

// ================================================================================
// Context Keys
// ================================================================================

// ContextKey represents keys used in context.Context
type ContextKey string

const (
	// ContextKeyRequestID is the key for request ID in context
	ContextKeyRequestID ContextKey = "request_id"

	// ContextKeyTraceID is the key for distributed trace ID in context
	ContextKeyTraceID ContextKey = "trace_id"
)

// HeaderRequestID carries the request ID in and out of the service
const HeaderRequestID = "X-Request-ID"
