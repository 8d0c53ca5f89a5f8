package handlers

import (
	goerrors "errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/turtacn/obsdemo/internal/application/dto"
	appservice "github.com/turtacn/obsdemo/internal/application/service"
	"github.com/turtacn/obsdemo/internal/domain/service"
	"github.com/turtacn/obsdemo/pkg/constants"
	"github.com/turtacn/obsdemo/pkg/errors"
	"github.com/turtacn/obsdemo/pkg/logger"
)

// WorkHandler serves the synthetic CPU load endpoint.
type WorkHandler struct {
	generator service.LoadGenerator
	defaultMs int
	log       logger.Logger
}

// NewWorkHandler creates a new WorkHandler. defaultMs applies when ms is absent.
func NewWorkHandler(generator service.LoadGenerator, defaultMs int, log logger.Logger) *WorkHandler {
	return &WorkHandler{generator: generator, defaultMs: defaultMs, log: log}
}

// Work godoc
// @Summary      Synthetic load
// @Description  Busy-loops for ms milliseconds to generate CPU load for autoscaling demos.
// @Tags         load
// @Produce      json
// @Param        ms   query     int  false  "milliseconds to spin"  default(50)
// @Success      200  {object}  dto.WorkResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /work [get]
func (h *WorkHandler) Work(c *gin.Context) {
	ms, err := h.parseMs(c)
	if err != nil {
		dto.SendError(c, err)
		return
	}

	res, err := h.generator.Generate(ms)
	if err != nil {
		switch {
		case goerrors.Is(err, appservice.ErrInvalidDuration), goerrors.Is(err, appservice.ErrDurationTooLong):
			dto.SendError(c, errors.ErrInvalidRequest(err.Error()).WithCause(err))
		default:
			h.log.Error(c.Request.Context(), "Load generation failed", err, logger.Int("ms", ms))
			dto.SendError(c, errors.ErrServerError("load generation failed").WithCause(err))
		}
		return
	}

	c.JSON(http.StatusOK, dto.WorkResponse{
		Status:     constants.StatusDone,
		Ms:         res.DurationMs,
		Iterations: res.Iterations,
	})
}

func (h *WorkHandler) parseMs(c *gin.Context) (int, error) {
	raw, ok := c.GetQuery("ms")
	if !ok {
		return h.defaultMs, nil
	}
	ms, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.ErrInvalidRequest(fmt.Sprintf("ms must be an integer, got %q", raw)).WithCause(err)
	}
	if ms < 0 {
		return 0, errors.ErrInvalidRequest(fmt.Sprintf("ms must not be negative, got %d", ms))
	}
	return ms, nil
}
