// Package service defines the interfaces for domain services.
package service

// MetricsRecorder defines the interface for recording labeled request metrics.
// This abstraction keeps the HTTP layer independent of the concrete registry (Prometheus).
// MetricsRecorder 定义了记录带标签请求指标的接口。
type MetricsRecorder interface {
	// IncrementCounter adds one to the named counter series, creating it at zero first if absent.
	IncrementCounter(name string, labels map[string]string) error

	// ObserveHistogram records one observation in the named histogram series, creating it if absent.
	ObserveHistogram(name string, labels map[string]string, value float64) error
}
