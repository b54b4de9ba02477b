package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/kanso-fit/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-fit/internal/metrics"
)

type RouterDependencies struct {
	WorkoutHandler   *WorkoutHandler
	NutritionHandler *NutritionHandler
	StreakHandler    *StreakHandler
	StatsHandler     *StatsHandler
	DashboardHandler *DashboardHandler

	// Health checks; nil means the backend is not in use.
	DB    *sqlx.DB
	Redis *redis.Client

	Metrics  *metrics.Manager
	Gatherer prometheus.Gatherer

	RateCounter middleware.RateCounter
	RateLimit   int
	RateWindow  time.Duration

	StartTime time.Time
}

func NewRouter(deps RouterDependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, "+middleware.UserIDHeader)
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	if deps.Metrics != nil {
		router.Use(middleware.RequestMetrics(deps.Metrics))
	}

	router.GET("/health", func(c *gin.Context) {
		statusCode := http.StatusOK
		body := gin.H{
			"status": "ok",
			"uptime": time.Since(deps.StartTime).String(),
		}

		if deps.DB != nil {
			body["database"] = "connected"
			if err := deps.DB.PingContext(c.Request.Context()); err != nil {
				body["database"] = "unreachable"
				statusCode = http.StatusServiceUnavailable
			}
		}
		if deps.Redis != nil {
			body["redis"] = "connected"
			if err := deps.Redis.Ping(c.Request.Context()).Err(); err != nil {
				body["redis"] = "unreachable"
				statusCode = http.StatusServiceUnavailable
			}
		}

		c.JSON(statusCode, body)
	})

	if deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	apiV1 := router.Group("/api/v1")
	if deps.RateCounter != nil && deps.RateLimit > 0 {
		apiV1.Use(middleware.RateLimiterMiddleware(deps.RateCounter, deps.RateLimit, deps.RateWindow))
	}
	apiV1.Use(middleware.UserIDMiddleware())
	{
		if deps.WorkoutHandler != nil {
			deps.WorkoutHandler.RegisterRoutes(apiV1)
		}
		if deps.NutritionHandler != nil {
			deps.NutritionHandler.RegisterRoutes(apiV1)
		}
		if deps.StreakHandler != nil {
			deps.StreakHandler.RegisterRoutes(apiV1)
		}
		if deps.StatsHandler != nil {
			deps.StatsHandler.RegisterRoutes(apiV1)
		}
		if deps.DashboardHandler != nil {
			deps.DashboardHandler.RegisterRoutes(apiV1)
		}
	}

	return router
}
