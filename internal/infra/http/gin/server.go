package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"estatedash/internal/infra/config"
	"estatedash/internal/infra/obs"
)

type PageHTTP interface {
	Dashboard(c *gin.Context)
	Analytics(c *gin.Context)
	Locations(c *gin.Context)
	Properties(c *gin.Context)
	Filter(c *gin.Context)
	Timeline(c *gin.Context)
	Valuation(c *gin.Context)
	Settings(c *gin.Context)
}

type ValuationHTTP interface {
	Submit(c *gin.Context)
	PredictListing(c *gin.Context)
	History(c *gin.Context)
}

type CrawlHTTP interface {
	EnableWebsites(c *gin.Context)
	DisableWebsites(c *gin.Context)
	Run(c *gin.Context)
	Stop(c *gin.Context)
	Schedule(c *gin.Context)
}

type ReportHTTP interface {
	Download(c *gin.Context)
	Export(c *gin.Context)
}

type Handlers struct {
	Pages     PageHTTP
	Valuation ValuationHTTP
	Crawl     CrawlHTTP
	Reports   ReportHTTP
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewRouter(cfg.AllowedOrigins, obsMW, health, h),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// NewRouter builds the gin engine without touching the global gin mode.
func NewRouter(origins []string, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(corsConfig(origins)))

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Pages != nil {
		pages := api.Group("/pages")
		pages.GET("/dashboard", h.Pages.Dashboard)
		pages.GET("/analytics", h.Pages.Analytics)
		pages.GET("/locations", h.Pages.Locations)
		pages.GET("/properties", h.Pages.Properties)
		pages.GET("/filter", h.Pages.Filter)
		pages.GET("/timeline", h.Pages.Timeline)
		pages.GET("/valuation", h.Pages.Valuation)
		pages.GET("/settings", h.Pages.Settings)
	}
	if h.Valuation != nil {
		api.POST("/valuations", h.Valuation.Submit)
		api.POST("/valuations/listings/:id", h.Valuation.PredictListing)
		api.GET("/valuations/history", h.Valuation.History)
	}
	if h.Crawl != nil {
		api.POST("/websites/enable", h.Crawl.EnableWebsites)
		api.POST("/websites/disable", h.Crawl.DisableWebsites)
		api.POST("/crawl/run", h.Crawl.Run)
		api.POST("/crawl/stop", h.Crawl.Stop)
		api.POST("/crawl/schedule", h.Crawl.Schedule)
	}
	if h.Reports != nil {
		api.GET("/reports/listings.xlsx", h.Reports.Download)
		api.POST("/reports/listings", h.Reports.Export)
	}
	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Idempotency-Key", obs.HeaderRequestID},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"Content-Disposition",
			obs.HeaderRequestID,
		},
		MaxAge: 12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local", "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
