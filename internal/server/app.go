// Package server exposes the dataset over HTTP, mirroring the bot commands.
package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"sleepfeedbot/internal/chart"
	"sleepfeedbot/internal/config"
	"sleepfeedbot/internal/dataset"
)

// ChartRenderer is the rendering backend as seen by the HTTP surface.
type ChartRenderer interface {
	TimelinePNG(rows []chart.TimelineDay) ([]byte, error)
	SummaryPNG(summary *chart.Summary) ([]byte, error)
}

type App struct {
	cfg    config.Config
	store  *dataset.Store
	charts ChartRenderer
}

func New(cfg config.Config, store *dataset.Store, charts ChartRenderer) *App {
	return &App{cfg: cfg, store: store, charts: charts}
}

func (a *App) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  a.cfg.CORSAllowOrigins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}))

	router.GET("/health", a.health)

	api := router.Group("/api/v1")
	api.POST("/archive", a.loadArchive)
	api.GET("/report", a.report)
	api.GET("/charts/timeline", a.timelineChart)
	api.GET("/charts/summary", a.summaryChart)
	api.GET("/export.csv", a.exportCSV)

	return router
}

func (a *App) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "sleepfeedbot-api",
	})
}

func writeError(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}
