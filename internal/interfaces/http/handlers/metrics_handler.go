package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/turtacn/obsdemo/pkg/logger"
)

// MetricsHandler exposes a gatherer in the Prometheus text format.
type MetricsHandler struct {
	handler http.Handler
}

// NewMetricsHandler creates a MetricsHandler for g. Encoding failures surface as 500.
func NewMetricsHandler(g prometheus.Gatherer, log logger.Logger) *MetricsHandler {
	return &MetricsHandler{
		handler: promhttp.HandlerFor(g, promhttp.HandlerOpts{
			ErrorLog:      promErrorLog{log: log},
			ErrorHandling: promhttp.HTTPErrorOnError,
		}),
	}
}

// Metrics godoc
// @Summary      Prometheus metrics
// @Tags         metrics
// @Produce      plain
// @Success      200
// @Router       /metrics [get]
func (h *MetricsHandler) Metrics(c *gin.Context) {
	h.handler.ServeHTTP(c.Writer, c.Request)
}

// promErrorLog adapts logger.Logger to promhttp.Logger.
type promErrorLog struct {
	log logger.Logger
}

func (l promErrorLog) Println(v ...interface{}) {
	l.log.Error(context.Background(), "Metrics exposition failed", fmt.Errorf("%s", fmt.Sprint(v...)))
}
