package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/comitanigiacomo/kanso-fit/internal/metrics"
)

func RequestMetrics(m *metrics.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		m.GaugeRequests.Inc()
		defer m.GaugeRequests.Dec()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		defer func(begin time.Time) {
			m.HistRequestDuration.WithLabelValues(route).Observe(time.Since(begin).Seconds())
		}(time.Now())

		c.Next()

		m.CounterRequests.With(
			prometheus.Labels{
				"method": c.Request.Method,
				"route":  route,
				"status": strconv.Itoa(c.Writer.Status()),
			},
		).Inc()
	}
}
