package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/newscheck/internal/api/middleware"
	"github.com/d60-Lab/newscheck/internal/model"
	"github.com/d60-Lab/newscheck/internal/service"
	"github.com/d60-Lab/newscheck/pkg/response"
)

type profileRequest struct {
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL"`
}

// UpsertProfile creates or updates the caller's profile, keyed on the
// verified identity.
// @Summary Upsert profile
// @Tags auth
// @Accept json
// @Produce json
// @Param request body profileRequest true "Profile attributes"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Security BearerAuth
// @Router /api/auth/profile [post]
func (h *Handler) UpsertProfile(c *gin.Context) {
	user, ok := middleware.UserFrom(c)
	if !ok {
		response.Unauthorized(c, "No token provided")
		return
	}

	// Body is optional: both attributes may be absent.
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, validationDetails(err))
		return
	}

	u, err := h.userService.UpsertProfile(c.Request.Context(), user, req.DisplayName, req.PhotoURL)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, profileBody(u))
}

// GetProfile returns the caller's stored profile.
// @Summary Fetch profile
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Security BearerAuth
// @Router /api/auth/profile [get]
func (h *Handler) GetProfile(c *gin.Context) {
	user, ok := middleware.UserFrom(c)
	if !ok {
		response.Unauthorized(c, "No token provided")
		return
	}

	u, err := h.userService.GetProfile(c.Request.Context(), user.UID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(c, "User not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, profileBody(u))
}

func profileBody(u *model.User) gin.H {
	return gin.H{
		"id":          u.ID,
		"email":       u.Email,
		"displayName": u.DisplayName,
		"photoURL":    u.PhotoURL,
		"createdAt":   u.CreatedAt,
	}
}
