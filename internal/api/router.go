// Package api assembles the HTTP router and server lifecycle.
package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/formguard/internal/config"
	"github.com/jonesrussell/formguard/internal/handler"
	"github.com/jonesrussell/formguard/internal/logger"
	"github.com/jonesrussell/formguard/internal/middleware"
)

const corsMaxAgeHours = 12

// Handlers bundles the route handlers the router wires up.
type Handlers struct {
	Health      *handler.HealthHandler
	Submissions *handler.SubmissionHandler
	Clicks      *handler.ClickHandler
	Stats       *handler.StatsHandler
	Whitelist   *handler.WhitelistHandler
}

// NewRouter builds the Gin engine with middleware and all API routes.
// Closing done stops the rate limiter's background sweeper.
func NewRouter(cfg *config.Config, log logger.Logger, h Handlers, done <-chan struct{}) *gin.Engine {
	if cfg.Service.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// CORS first: the extension calls from arbitrary page origins.
	corsCfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Content-Length", "Accept-Encoding",
			"Cache-Control", "X-Requested-With",
		},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        corsMaxAgeHours * time.Hour,
	}
	if len(cfg.CORS.AllowedOrigins) == 1 && cfg.CORS.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORS.AllowedOrigins
	}
	router.Use(cors.New(corsCfg))

	router.Use(ginLogger(log))
	router.Use(gin.Recovery())
	router.Use(middleware.CrawlerFilter())

	router.GET("/", h.Health.Index)
	router.GET("/health", h.Health.HealthCheck)

	limit := middleware.RateLimiter(
		cfg.RateLimit.MaxEventsPerMinute,
		time.Duration(cfg.RateLimit.WindowSeconds)*time.Second,
		done,
	)

	api := router.Group("/api")

	submissions := api.Group("/submissions")
	submissions.POST("", limit, h.Submissions.Create)
	submissions.GET("", h.Submissions.ListSuspicious)
	submissions.GET("/human", h.Submissions.ListHuman)
	submissions.GET("/human/background", h.Submissions.ListHumanBackground)
	submissions.GET("/bot", h.Submissions.ListBot)
	submissions.DELETE("/:id", h.Submissions.Delete)
	submissions.DELETE("", h.Submissions.Clear)

	stats := api.Group("/stats")
	stats.GET("", h.Stats.Overview)
	stats.GET("/classification", h.Stats.Classification)

	whitelist := api.Group("/whitelist")
	whitelist.POST("", h.Whitelist.Add)
	whitelist.GET("", h.Whitelist.List)
	whitelist.GET("/check", h.Whitelist.Check)
	whitelist.DELETE("/:id", h.Whitelist.Delete)

	clicks := api.Group("/clicks")
	clicks.POST("/pointer", limit, h.Clicks.RecordPointer)
	clicks.POST("/page", limit, h.Clicks.RecordPage)
	clicks.GET("/stats", h.Clicks.Stats)
	clicks.GET("/suspicious", h.Clicks.Suspicious)
	clicks.GET("/recent", h.Clicks.Recent)
	clicks.GET("/actions", h.Clicks.Actions)

	return router
}

func ginLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		log.Info("HTTP request",
			logger.String("method", method),
			logger.String("path", path),
			logger.Int("status_code", c.Writer.Status()),
			logger.String("client_ip", c.ClientIP()),
			logger.Duration("duration", time.Since(start)),
		)
	}
}
