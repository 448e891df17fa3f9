// Package httpapi is the process's side-channel HTTP surface: health
// checks, readiness, Prometheus scraping, and a Swagger UI for the
// handful of operational endpoints below. The streaming order-book RPC
// itself stays on gRPC (api/orderbookpb); nothing book-related is
// exposed here.
package httpapi

import (
	"net/http"

	"github.com/BullionBear/orderbook-aggregator/internal/metrics"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Orderbook Aggregator Ops API
// @version 1.0
// @description Health, readiness and metrics endpoints for the orderbook aggregator process.
// @BasePath /

// AllowAllCors permits cross-origin requests from any origin; these are
// internal ops endpoints with nothing sensitive behind them.
func AllowAllCors(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
	if c.Request.Method == http.MethodOptions {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}
	c.Next()
}

// NewRouter builds the gin engine serving /healthz, /readyz, /metrics
// and the Swagger UI. m may be nil, in which case /metrics returns 404.
func NewRouter(m *metrics.Metrics) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), AllowAllCors)

	router.GET("/healthz", getHealthz)
	router.GET("/readyz", getReadyz)
	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return router
}

// @Summary Liveness probe
// @Description Reports whether the process is up. Always 200 once the router is serving.
// @Produce json
// @Success 200 {object} map[string]string
// @Router /healthz [get]
func getHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary Readiness probe
// @Description Reports whether the process is ready to accept BookSummary subscriptions.
// @Produce json
// @Success 200 {object} map[string]string
// @Router /readyz [get]
func getReadyz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
