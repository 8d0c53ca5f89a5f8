package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/obsdemo/internal/application/dto"
	appservice "github.com/turtacn/obsdemo/internal/application/service"
	"github.com/turtacn/obsdemo/internal/domain/service"
	"github.com/turtacn/obsdemo/pkg/logger"
)

// MockLoadGenerator is a mock for service.LoadGenerator
type MockLoadGenerator struct {
	mock.Mock
}

func (m *MockLoadGenerator) Generate(durationMs int) (service.LoadResult, error) {
	args := m.Called(durationMs)
	return args.Get(0).(service.LoadResult), args.Error(1)
}

func setupWorkRouter(gen service.LoadGenerator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewWorkHandler(gen, 50, logger.NewNop())
	router := gin.New()
	router.GET("/work", h.Work)
	return router
}

func doWork(router *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestWork_Default(t *testing.T) {
	gen := new(MockLoadGenerator)
	gen.On("Generate", 50).Return(service.LoadResult{DurationMs: 50, Iterations: 1234}, nil).Once()

	w := doWork(setupWorkRouter(gen), "/work")

	assert.Equal(t, http.StatusOK, w.Code)
	var resp dto.WorkResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.WorkResponse{Status: "done", Ms: 50, Iterations: 1234}, resp)
	gen.AssertExpectations(t)
}

func TestWork_ExplicitMs(t *testing.T) {
	gen := new(MockLoadGenerator)
	gen.On("Generate", 0).Return(service.LoadResult{DurationMs: 0, Iterations: 0}, nil).Once()
	gen.On("Generate", 250).Return(service.LoadResult{DurationMs: 250, Iterations: 99}, nil).Once()
	router := setupWorkRouter(gen)

	w := doWork(router, "/work?ms=0")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"done","ms":0,"iterations":0}`, w.Body.String())

	w = doWork(router, "/work?ms=250")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"done","ms":250,"iterations":99}`, w.Body.String())
	gen.AssertExpectations(t)
}

func TestWork_BadInput(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"non integer", "/work?ms=abc"},
		{"float", "/work?ms=2.5"},
		{"negative", "/work?ms=-1"},
		{"empty", "/work?ms="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := new(MockLoadGenerator)
			w := doWork(setupWorkRouter(gen), tt.target)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "invalid_request", resp.Error)
			gen.AssertNotCalled(t, "Generate", mock.Anything)
		})
	}
}

func TestWork_GeneratorErrors(t *testing.T) {
	gen := new(MockLoadGenerator)
	gen.On("Generate", 9000).Return(service.LoadResult{}, appservice.ErrDurationTooLong).Once()
	gen.On("Generate", 10).Return(service.LoadResult{}, errors.New("boom")).Once()
	router := setupWorkRouter(gen)

	w := doWork(router, "/work?ms=9000")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doWork(router, "/work?ms=10")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "server_error", resp.Error)
	assert.NotContains(t, resp.ErrorDescription, "boom")
	gen.AssertExpectations(t)
}
