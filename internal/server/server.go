// Package server exposes the ETL over HTTP: health, metrics, the load log,
// and a manual load trigger.
package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/tubepulse/tubepulse-cli/internal/blobstore"
	"github.com/tubepulse/tubepulse-cli/internal/config"
	"github.com/tubepulse/tubepulse-cli/internal/db"
	"github.com/tubepulse/tubepulse-cli/internal/warehouse"
)

// Server is the HTTP surface over the warehouse pool and the object store.
type Server struct {
	cfg    config.ServerConfig
	pool   db.Pool
	store  blobstore.Store
	engine *gin.Engine
	now    func() time.Time
}

// New builds the router. gin runs in release mode; request logging goes
// through the global zap logger instead of gin's default writer.
func New(cfg config.ServerConfig, pool db.Pool, store blobstore.Store) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		cfg:    cfg,
		pool:   pool,
		store:  store,
		engine: gin.New(),
		now:    time.Now,
	}

	s.engine.Use(gin.Recovery(), requestLogger())

	s.engine.GET("/healthz", s.healthz)
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.engine.Group("/api")
	{
		api.GET("/loads", s.listLoads)
		api.POST("/load", s.triggerLoad)
	}

	return s
}

// Run serves until the listener fails.
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	zap.L().Info("http server listening", zap.String("addr", addr))
	return s.engine.Run(addr)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		zap.L().Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

func (s *Server) healthz(c *gin.Context) {
	if err := s.pool.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listLoads(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return
	}

	entries, err := warehouse.NewLoadLog(s.pool).List(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// triggerLoad runs the five-phase load for the requested date (default:
// today, UTC) and returns the run report. The load runs synchronously, like
// the timer trigger it replaces.
func (s *Server) triggerLoad(c *gin.Context) {
	date := s.now().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	result := warehouse.NewOrchestrator(s.pool).Load(c.Request.Context(), s.store, date)
	status := http.StatusOK
	if !result.Success {
		status = http.StatusInternalServerError
	}
	c.JSON(status, result)
}
