package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Authorize requires the resolved caller's role to be allowed op.
// It must run after TenantContext.
func Authorize(gate *identity.Gate, op identity.Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		tc, ok := GetTenantContext(c)
		if !ok {
			AbortWithError(c, shared.ErrUnauthenticated)
			return
		}
		if err := gate.Authorize(tc, op); err != nil {
			logger.L(c.Request.Context()).Debug("Permission denied",
				zap.String("operation", string(op)),
				zap.String("role", tc.Role.String()),
			)
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}
