package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"disaster-response/internal/pkg/apperrors"
)

// RoleGuard allows any of the listed roles through.
func RoleGuard(allowed ...string) gin.HandlerFunc {
	roles := make(map[string]bool, len(allowed))
	for _, r := range allowed {
		roles[r] = true
	}

	return func(c *gin.Context) {
		if !roles[c.GetString("role")] {
			c.AbortWithStatusJSON(http.StatusForbidden, apperrors.ErrorResponse{
				Error: apperrors.ErrorBody{
					Code:    "FORBIDDEN",
					Message: "insufficient permissions",
				},
			})
			return
		}

		c.Next()
	}
}
