package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/d60-Lab/newscheck/internal/api/middleware"
	"github.com/d60-Lab/newscheck/internal/ml"
	"github.com/d60-Lab/newscheck/internal/service"
	"github.com/d60-Lab/newscheck/pkg/response"
)

type analyzeRequest struct {
	Content string `json:"content" binding:"required,min=10,max=10000"`
}

// Analyze classifies submitted text and stores the outcome.
// @Summary Analyze news text
// @Tags news
// @Accept json
// @Produce json
// @Param request body analyzeRequest true "Text to classify (10..10000 chars)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Security BearerAuth
// @Router /api/news/analyze [post]
func (h *Handler) Analyze(c *gin.Context) {
	user, ok := middleware.UserFrom(c)
	if !ok {
		response.Unauthorized(c, "No token provided")
		return
	}

	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validationDetails(err))
		return
	}

	a, err := h.newsService.Analyze(c.Request.Context(), user.UID, req.Content)
	if err != nil {
		if errors.Is(err, ml.ErrUnavailable) {
			response.ServiceUnavailable(c)
			return
		}
		response.InternalError(c, err)
		return
	}

	response.OK(c, gin.H{
		"id":             a.ID,
		"prediction":     a.Prediction,
		"confidence":     a.Confidence,
		"modelUsed":      a.ModelUsed,
		"processingTime": a.ProcessingTime,
		"timestamp":      a.CreatedAt,
	})
}

// History returns a page of the caller's past analyses, newest first.
// Full text is never included here, only metadata.
// @Summary Paged analysis history
// @Tags news
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Security BearerAuth
// @Router /api/news/history [get]
func (h *Handler) History(c *gin.Context) {
	user, ok := middleware.UserFrom(c)
	if !ok {
		response.Unauthorized(c, "No token provided")
		return
	}

	// Permissive parse: missing or non-numeric values fall back to defaults.
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil {
		limit = 10
	}

	hp, err := h.newsService.History(c.Request.Context(), user.UID, page, limit)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	response.OK(c, gin.H{
		"analyses": hp.Analyses,
		"pagination": gin.H{
			"page":  hp.Page,
			"limit": hp.Limit,
			"total": hp.Total,
			"pages": hp.Pages,
		},
	})
}

// GetAnalysis returns one analysis with its full text. Rows owned by other
// users resolve as 404 rather than 403 to avoid leaking existence.
// @Summary Fetch one analysis
// @Tags news
// @Produce json
// @Param id path string true "Analysis ID"
// @Success 200 {object} model.NewsAnalysis
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Security BearerAuth
// @Router /api/news/analysis/{id} [get]
func (h *Handler) GetAnalysis(c *gin.Context) {
	user, ok := middleware.UserFrom(c)
	if !ok {
		response.Unauthorized(c, "No token provided")
		return
	}

	a, err := h.newsService.Get(c.Request.Context(), c.Param("id"), user.UID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(c, "Analysis not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, a)
}

// validationDetails flattens a binding failure into per-field messages.
func validationDetails(err error) []response.FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []response.FieldError{{Field: "body", Message: "malformed request body"}}
	}

	out := make([]response.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		var msg string
		switch fe.Tag() {
		case "required":
			msg = "is required"
		case "min":
			msg = "must be at least " + fe.Param() + " characters"
		case "max":
			msg = "must be at most " + fe.Param() + " characters"
		default:
			msg = "is invalid"
		}
		out = append(out, response.FieldError{Field: fe.Field(), Message: msg})
	}
	return out
}
