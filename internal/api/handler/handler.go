package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/newscheck/internal/service"
	"github.com/d60-Lab/newscheck/pkg/response"
)

// Handler carries the services shared by all routes.
type Handler struct {
	newsService service.NewsService
	userService service.UserService
	log         *zap.Logger
}

func New(newsService service.NewsService, userService service.UserService, log *zap.Logger) *Handler {
	return &Handler{newsService: newsService, userService: userService, log: log}
}

// Health reports liveness.
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	response.OK(c, gin.H{
		"status":    "healthy",
		"service":   "Fake News Detector Backend",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
