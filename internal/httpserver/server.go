// Package httpserver builds the gin engine and owns the HTTP listener.
package httpserver

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"biocareer/opportunity-service/internal/scheduler"
)

const (
	serviceName = "opportunity-service"
	// Version is reported by /health.
	Version = "0.3.0"
)

// Registrar mounts a group of routes.
type Registrar interface {
	RegisterRoutes(r gin.IRouter)
}

type healthResponse struct {
	Status   string             `json:"status"`
	Service  string             `json:"service"`
	Version  string             `json:"version"`
	Provider scheduler.Snapshot `json:"provider"`
}

// Server is the public HTTP API.
type Server struct {
	http   *http.Server
	engine *gin.Engine
	logger *zap.Logger
}

// New builds the engine with logging, recovery and CORS middleware, a
// /health route reporting provider, and every registrar's routes.
func New(addr string, allowedOrigins []string, provider func() scheduler.Snapshot, logger *zap.Logger, routes ...Registrar) *Server {
	logger = logger.Named("http")

	engine := gin.New()
	_ = engine.SetTrustedProxies(nil)
	engine.Use(requestLogger(logger), recovery(logger), cors(allowedOrigins))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, healthResponse{
			Status:   "ok",
			Service:  serviceName,
			Version:  Version,
			Provider: provider(),
		})
	})
	for _, r := range routes {
		r.RegisterRoutes(engine)
	}

	return &Server{
		http: &http.Server{
			Addr:              addr,
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		engine: engine,
		logger: logger,
	}
}

// Handler returns the root handler, for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// ListenAndServe blocks until the server stops. A clean shutdown returns nil.
func (s *Server) ListenAndServe() error {
	s.logger.Info("HTTP listening", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}

func recovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, err any) {
		logger.Error("panic recovered", zap.Any("panic", err), zap.String("path", c.Request.URL.Path))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	})
}

// cors allows the listed origins, or any origin when the list contains "*".
func cors(allowed []string) gin.HandlerFunc {
	wildcard := slices.Contains(allowed, "*")
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		switch {
		case origin == "":
		case wildcard:
			c.Header("Access-Control-Allow-Origin", "*")
		case slices.Contains(allowed, origin):
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
