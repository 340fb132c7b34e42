package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/interfaces/http/middleware"
)

// LogoutService revokes the presented credential
type LogoutService interface {
	Logout(ctx context.Context, tc identity.TenantContext, tokenID string, expiresAt time.Time) error
}

// AuthHandler handles credential endpoints
type AuthHandler struct {
	BaseHandler
	auth LogoutService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth LogoutService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// MeResponse is the resolved identity of the caller
type MeResponse struct {
	UserID  uuid.UUID `json:"user_id"`
	Email   string    `json:"email"`
	Role    string    `json:"role"`
	OwnerID uuid.UUID `json:"owner_id"`
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	tc, ok := h.TenantContext(c)
	if !ok {
		return
	}
	h.Success(c, MeResponse{
		UserID:  tc.UserID,
		Email:   tc.Email,
		Role:    tc.Role.String(),
		OwnerID: tc.OwnerID,
	})
}

// Logout handles POST /auth/logout. The token stays revoked until it
// would have expired.
func (h *AuthHandler) Logout(c *gin.Context) {
	tc, ok := h.TenantContext(c)
	if !ok {
		return
	}
	cred := middleware.GetCredential(c)
	if cred == nil {
		h.HandleError(c, shared.ErrUnauthenticated)
		return
	}

	if err := h.auth.Logout(c.Request.Context(), tc, cred.TokenID, cred.ExpiresAt); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
