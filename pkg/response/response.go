package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// FieldError is one entry in a validation failure list.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// devDetail controls whether 500 bodies carry internal error detail.
// Enabled outside release mode only.
var devDetail bool

// SetDevDetail toggles internal detail on 500 responses. Call once at startup.
func SetDevDetail(on bool) { devDetail = on }

// OK writes the payload as-is with status 200.
func OK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

// BadRequest reports a validation failure with per-field detail.
func BadRequest(c *gin.Context, details []FieldError) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": details})
}

func Unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}

func NotFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, gin.H{"error": msg})
}

// ServiceUnavailable reports a collaborator outage. The body stays generic;
// internal failure detail never leaks here.
func ServiceUnavailable(c *gin.Context) {
	c.JSON(http.StatusServiceUnavailable, gin.H{
		"error":   "ML service unavailable",
		"message": "Please try again later",
	})
}

// InternalError is the last-resort 500. Outside release mode the body also
// carries the error message to ease debugging.
func InternalError(c *gin.Context, err error) {
	body := gin.H{"error": "Internal server error"}
	if devDetail && err != nil {
		body["details"] = err.Error()
	}
	c.JSON(http.StatusInternalServerError, body)
}
