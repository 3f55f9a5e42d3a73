package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/newscheck/internal/auth"
	"github.com/d60-Lab/newscheck/pkg/response"
)

const userContextKey = "newscheck.user"

// Auth is the sole authorization gate: it exchanges the bearer token for a
// verified identity before any handler logic runs. There are no roles or
// scopes, only authenticated vs not.
func Auth(verifier auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			response.Unauthorized(c, "No token provided")
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")

		uc, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			response.Unauthorized(c, "Invalid token")
			return
		}

		c.Set(userContextKey, uc)
		c.Next()
	}
}

// UserFrom returns the identity attached by Auth. The second return is false
// on unprotected routes.
func UserFrom(c *gin.Context) (*auth.UserContext, bool) {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil, false
	}
	uc, ok := v.(*auth.UserContext)
	return uc, ok
}
