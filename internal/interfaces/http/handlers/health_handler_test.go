// internal/interfaces/http/handlers/health_handler_test.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/obsdemo/internal/domain/service"
	"github.com/turtacn/obsdemo/pkg/logger"
)

// MockReadinessChecker is a mock for service.ReadinessChecker
type MockReadinessChecker struct {
	mock.Mock
}

func (m *MockReadinessChecker) CheckReady(ctx context.Context) service.Readiness {
	args := m.Called(ctx)
	return args.Get(0).(service.Readiness)
}

func (m *MockReadinessChecker) DependencyName() string {
	return "redis"
}

func setupHealthRouter(checker service.ReadinessChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHealthHandler(checker, logger.NewNop())
	router := gin.New()
	router.GET("/health", h.LivenessCheck)
	router.GET("/ready", h.ReadinessCheck)
	return router
}

func TestLivenessCheck_NeverConsultsDependency(t *testing.T) {
	checker := new(MockReadinessChecker)
	router := setupHealthRouter(checker)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	checker.AssertNotCalled(t, "CheckReady", mock.Anything)
}

func TestReadinessCheck_Ready(t *testing.T) {
	checker := new(MockReadinessChecker)
	checker.On("CheckReady", mock.Anything).Return(service.Readiness{Ready: true}).Once()
	router := setupHealthRouter(checker)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ready","redis":"ok"}`, w.Body.String())
	checker.AssertExpectations(t)
}

func TestReadinessCheck_NotReady(t *testing.T) {
	checker := new(MockReadinessChecker)
	checker.On("CheckReady", mock.Anything).
		Return(service.Readiness{Ready: false, Detail: "dial tcp 127.0.0.1:6379: connect: connection refused"}).Once()
	router := setupHealthRouter(checker)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "not_ready", body["status"])
	assert.Equal(t, "error", body["redis"])
	assert.Contains(t, body["detail"], "connection refused")
	checker.AssertExpectations(t)
}

func TestReadinessCheck_ProbesEveryRequest(t *testing.T) {
	checker := new(MockReadinessChecker)
	checker.On("CheckReady", mock.Anything).Return(service.Readiness{Ready: true}).Once()
	checker.On("CheckReady", mock.Anything).Return(service.Readiness{Ready: false, Detail: "down"}).Once()
	router := setupHealthRouter(checker)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	checker.AssertNumberOfCalls(t, "CheckReady", 2)
}
