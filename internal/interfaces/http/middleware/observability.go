package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/turtacn/obsdemo/internal/domain/service"
	"github.com/turtacn/obsdemo/pkg/constants"
	"github.com/turtacn/obsdemo/pkg/logger"
)

// PathLabeler derives the path label for a finished request.
type PathLabeler func(c *gin.Context) string

// RawPath labels requests with the requested URL path. Every distinct path becomes its
// own series, so unbounded path spaces mean unbounded cardinality. Invalid UTF-8 from
// percent-decoding is replaced with U+FFFD, since prometheus rejects such label values.
func RawPath(c *gin.Context) string {
	return strings.ToValidUTF8(c.Request.URL.Path, "\uFFFD")
}

// RoutePath labels requests with the matched route template (e.g. "/users/:id").
func RoutePath(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return constants.UnmatchedRouteLabel
}

// PathLabelerFor maps the metrics.path_label config value to a labeler.
func PathLabelerFor(mode string) PathLabeler {
	if mode == constants.PathLabelRoute {
		return RoutePath
	}
	return RawPath
}

type metricsOptions struct {
	pathLabel PathLabeler
	log       logger.Logger
	now       func() time.Time
}

// MetricsOption customizes RequestMetrics.
type MetricsOption func(*metricsOptions)

// WithPathLabeler overrides the default RawPath labeler.
func WithPathLabeler(l PathLabeler) MetricsOption {
	return func(o *metricsOptions) { o.pathLabel = l }
}

// WithLogger receives recorder errors. They are dropped otherwise.
func WithLogger(log logger.Logger) MetricsOption {
	return func(o *metricsOptions) { o.log = log }
}

func withClock(now func() time.Time) MetricsOption {
	return func(o *metricsOptions) { o.now = now }
}

// RequestMetrics returns a Gin middleware that times every request and records
// http_request_duration_seconds{path} and http_requests_total{method,path,status_code}.
//
// Metrics are recorded only when the rest of the chain returns. A panic unwinds through
// this middleware without recording anything and is left for the recovery middleware.
// The response is never modified.
func RequestMetrics(recorder service.MetricsRecorder, opts ...MetricsOption) gin.HandlerFunc {
	o := metricsOptions{
		pathLabel: RawPath,
		log:       logger.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return func(c *gin.Context) {
		start := o.now()

		c.Next()

		duration := o.now().Sub(start)
		path := o.pathLabel(c)
		status := strconv.Itoa(c.Writer.Status())

		if err := recorder.ObserveHistogram(constants.MetricHTTPRequestDuration, map[string]string{
			constants.LabelPath: path,
		}, duration.Seconds()); err != nil {
			o.log.Warn(c.Request.Context(), "Failed to observe request duration", logger.Error(err))
		}

		if err := recorder.IncrementCounter(constants.MetricHTTPRequestsTotal, map[string]string{
			constants.LabelMethod:     c.Request.Method,
			constants.LabelPath:       path,
			constants.LabelStatusCode: status,
		}); err != nil {
			o.log.Warn(c.Request.Context(), "Failed to count request", logger.Error(err))
		}
	}
}
