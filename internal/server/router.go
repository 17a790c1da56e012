package server

import (
	_ "embed"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//go:embed index.html
var indexHTML []byte

// NewRouter wires the handler into a gin engine.
func NewRouter(h *Handler, allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(h.logger))

	if len(allowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: allowedOrigins,
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type"},
		}))
	}

	r.GET("/", Index)
	r.GET("/health", h.GetHealth)

	api := r.Group("/api")
	api.GET("/state", h.GetState)
	api.POST("/ads", h.PostAds)
	api.POST("/analyze", h.PostAnalyze)
	api.POST("/generate", h.PostGenerate)

	return r
}

// Index serves the single-page form.
func Index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}

// RequestLogger logs each request's method, path, status and duration.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("uri", c.Request.URL.RequestURI()),
			zap.String("addr", c.ClientIP()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
