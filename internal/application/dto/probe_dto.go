// Package dto provides data transfer objects for the HTTP surface.
package dto

// HealthResponse is returned by the liveness endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadyResponse is returned by the readiness endpoint. The dependency status is keyed
// by dependency name ("redis"), so it is built as a map rather than a fixed struct.
type ReadyResponse map[string]string

// WorkResponse is returned after a busy-loop completes.
type WorkResponse struct {
	Status     string `json:"status"`
	Ms         int    `json:"ms"`
	Iterations int64  `json:"iterations"`
}
