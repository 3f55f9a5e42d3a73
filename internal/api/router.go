package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/d60-Lab/newscheck/config"
	_ "github.com/d60-Lab/newscheck/docs"
	"github.com/d60-Lab/newscheck/internal/api/handler"
	"github.com/d60-Lab/newscheck/internal/api/middleware"
	"github.com/d60-Lab/newscheck/internal/auth"
)

// NewRouter assembles the gin engine: process middleware first, then the
// public routes, then the bearer-protected API groups.
func NewRouter(cfg *config.Config, h *handler.Handler, verifier auth.Verifier, log *zap.Logger) *gin.Engine {
	gin.SetMode(ginMode(cfg.Server.Mode))

	r := gin.New()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestLog(log))
	r.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.Server.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	if cfg.Server.MaxBodyBytes > 0 {
		r.Use(bodyLimit(cfg.Server.MaxBodyBytes))
	}

	r.GET("/health", h.Health)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authed := r.Group("/api", middleware.Auth(verifier))
	{
		authGroup := authed.Group("/auth")
		authGroup.POST("/profile", h.UpsertProfile)
		authGroup.GET("/profile", h.GetProfile)

		news := authed.Group("/news")
		news.POST("/analyze", h.Analyze)
		news.GET("/history", h.History)
		news.GET("/analysis/:id", h.GetAnalysis)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})
	return r
}

func ginMode(mode string) string {
	switch mode {
	case "release":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}

func bodyLimit(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
