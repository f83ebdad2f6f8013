package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/teamagenda/agenda-api/internal/service"
)

// Metrics records method, route and latency for every request. A nil
// service turns the middleware into a pass-through.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	if metricsSvc == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		// Unmatched routes have no template, fall back to the raw path
		// so 404s still show up in the counters.
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
