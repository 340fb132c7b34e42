package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/infrastructure/auth"
	"github.com/retailpos/backend/internal/infrastructure/logger"
	"github.com/retailpos/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Gin context keys set by TenantContext
const (
	TenantContextKey = "tenant_context"
	CredentialKey    = "credential"
	AuthHeaderKey    = "Authorization"
)

// CredentialResolver verifies the Authorization header of a request
type CredentialResolver interface {
	Resolve(ctx context.Context, header string) (*auth.Credential, error)
}

// TenantContext resolves the caller from the bearer credential. Requests
// without a valid credential end here with 401. Tenant ids supplied any
// other way are ignored.
func TenantContext(resolver CredentialResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		cred, err := resolver.Resolve(c.Request.Context(), c.GetHeader(AuthHeaderKey))
		if err != nil {
			AbortWithError(c, err)
			return
		}

		tc := cred.Context
		c.Set(TenantContextKey, tc)
		c.Set(CredentialKey, cred)

		ctx, _ := logger.WithTenant(c.Request.Context(), tc.TenantID().String(), tc.UserID.String())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// GetTenantContext returns the caller resolved by TenantContext
func GetTenantContext(c *gin.Context) (identity.TenantContext, bool) {
	v, ok := c.Get(TenantContextKey)
	if !ok {
		return identity.TenantContext{}, false
	}
	tc, ok := v.(identity.TenantContext)
	return tc, ok
}

// GetCredential returns the verified credential of the request
func GetCredential(c *gin.Context) *auth.Credential {
	v, ok := c.Get(CredentialKey)
	if !ok {
		return nil
	}
	cred, _ := v.(*auth.Credential)
	return cred
}

// AbortWithError ends the request with the envelope for err. Internal
// causes are logged, never returned.
func AbortWithError(c *gin.Context, err error) {
	status, resp := dto.FromError(err, GetRequestID(c))
	if resp.Error.Code == dto.ErrCodeInternal {
		logger.L(c.Request.Context()).Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, resp)
}
