package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/turtacn/obsdemo/internal/application/dto"
	"github.com/turtacn/obsdemo/internal/domain/service"
	"github.com/turtacn/obsdemo/pkg/constants"
	"github.com/turtacn/obsdemo/pkg/logger"
)

// HealthHandler provides liveness and readiness endpoints.
type HealthHandler struct {
	readiness service.ReadinessChecker
	log       logger.Logger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(readiness service.ReadinessChecker, log logger.Logger) *HealthHandler {
	return &HealthHandler{
		readiness: readiness,
		log:       log,
	}
}

// LivenessCheck godoc
// @Summary      Liveness Check
// @Description  Always reports ok while the process is serving; dependencies are not consulted.
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.HealthResponse
// @Router       /health [get]
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{Status: constants.StatusOK})
}

// ReadinessCheck godoc
// @Summary      Readiness Check
// @Description  Pings the dependency once and reports whether the service can take traffic.
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.ReadyResponse
// @Failure      503  {object}  dto.ReadyResponse
// @Router       /ready [get]
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	dep := h.readiness.DependencyName()
	res := h.readiness.CheckReady(c.Request.Context())

	if !res.Ready {
		c.JSON(http.StatusServiceUnavailable, dto.ReadyResponse{
			"status": constants.StatusNotReady,
			dep:      constants.StatusError,
			"detail": res.Detail,
		})
		return
	}

	c.JSON(http.StatusOK, dto.ReadyResponse{
		"status": constants.StatusReady,
		dep:      constants.StatusOK,
	})
}

//Personal.AI order the ending
