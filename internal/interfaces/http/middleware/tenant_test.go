package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/infrastructure/auth"
	"github.com/retailpos/backend/internal/infrastructure/config"
	"github.com/retailpos/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tokenFixture struct {
	jwt       *auth.JWTService
	blacklist *auth.InMemoryTokenBlacklist
	resolver  *auth.TenantContextResolver
}

func newTokenFixture() *tokenFixture {
	jwt := auth.NewJWTService(config.JWTConfig{
		Secret:                "middleware-test-secret-with-32-bytes!",
		AccessTokenExpiration: time.Hour,
		Issuer:                "retailpos-test",
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	return &tokenFixture{jwt: jwt, blacklist: blacklist, resolver: auth.NewTenantContextResolver(jwt, blacklist)}
}

func (f *tokenFixture) token(t *testing.T, role identity.Role) (string, identity.TenantContext) {
	t.Helper()
	ownerID := uuid.New()
	userID := ownerID
	if role != identity.RoleOwner {
		userID = uuid.New()
	}
	tc, err := identity.NewTenantContext(userID, "user@example.com", role, ownerID)
	require.NoError(t, err)
	token, _, _, err := f.jwt.Issue(tc)
	require.NoError(t, err)
	return token, tc
}

func newTenantRouter(f *tokenFixture, mw ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), TenantContext(f.resolver))
	handlers := append(mw, func(c *gin.Context) {
		tc, ok := GetTenantContext(c)
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.String(http.StatusOK, tc.TenantID().String())
	})
	router.GET("/test", handlers...)
	return router
}

func TestTenantContext(t *testing.T) {
	f := newTokenFixture()
	router := newTenantRouter(f)

	t.Run("resolves tenant from claims", func(t *testing.T) {
		token, tc := f.token(t, identity.RoleCashier)
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(AuthHeaderKey, "Bearer "+token)
		req.Header.Set("X-Tenant-ID", uuid.NewString())

		w := serve(router, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, tc.OwnerID.String(), w.Body.String())
	})

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"garbage token", "Bearer not-a-jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set(AuthHeaderKey, tt.header)
			}
			w := serve(router, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			resp := decodeResponse(t, w)
			assert.Equal(t, dto.ErrCodeUnauthorized, resp.Error.Code)
			assert.NotEmpty(t, resp.Error.RequestID)
		})
	}

	t.Run("revoked token is rejected", func(t *testing.T) {
		token, _ := f.token(t, identity.RoleOwner)
		cred, err := f.resolver.Resolve(context.Background(), "Bearer "+token)
		require.NoError(t, err)
		require.NoError(t, f.blacklist.Revoke(context.Background(), cred.TokenID, cred.ExpiresAt))

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(AuthHeaderKey, "Bearer "+token)
		w := serve(router, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "TOKEN_REVOKED", decodeResponse(t, w).Error.Reason)
	})
}

func TestAuthorize(t *testing.T) {
	f := newTokenFixture()
	gate := identity.NewDefaultGate()
	router := newTenantRouter(f, Authorize(gate, identity.OpStockAdjust))

	request := func(role identity.Role) *httptest.ResponseRecorder {
		token, _ := f.token(t, role)
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(AuthHeaderKey, "Bearer "+token)
		return serve(router, req)
	}

	assert.Equal(t, http.StatusOK, request(identity.RoleOwner).Code)
	assert.Equal(t, http.StatusOK, request(identity.RoleManager).Code)

	w := request(identity.RoleCashier)
	assert.Equal(t, http.StatusForbidden, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, dto.ErrCodeForbidden, resp.Error.Code)
	assert.Equal(t, "PERMISSION_DENIED", resp.Error.Reason)
}

func TestAuthorize_WithoutTenantContext(t *testing.T) {
	router := gin.New()
	router.GET("/test", Authorize(identity.NewDefaultGate(), identity.OpStoreRead), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := serve(router, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
