package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/shared"
)

// Unauthenticated errors returned by the resolver. All of them map to 401.
var (
	ErrMissingCredential = shared.NewCategorizedError(shared.CategoryUnauthenticated, "TOKEN_MISSING", "Authorization header is required")
	ErrMalformedHeader   = shared.NewCategorizedError(shared.CategoryUnauthenticated, "TOKEN_MALFORMED", "Authorization header must be 'Bearer <token>'")
	ErrCredentialExpired = shared.NewCategorizedError(shared.CategoryUnauthenticated, "TOKEN_EXPIRED", "Token has expired")
	ErrCredentialInvalid = shared.NewCategorizedError(shared.CategoryUnauthenticated, "TOKEN_INVALID", "Token is invalid")
	ErrCredentialRevoked = shared.NewCategorizedError(shared.CategoryUnauthenticated, "TOKEN_REVOKED", "Token has been revoked")
)

// Credential is a verified bearer token
type Credential struct {
	Context   identity.TenantContext
	TokenID   string
	ExpiresAt time.Time
}

// TenantContextResolver turns an Authorization header into the caller's
// tenant context. The tenant comes only from verified claims.
type TenantContextResolver struct {
	tokens  *JWTService
	revoked TokenBlacklist
}

// NewTenantContextResolver creates a resolver. revoked may be nil when
// revocation is not in use.
func NewTenantContextResolver(tokens *JWTService, revoked TokenBlacklist) *TenantContextResolver {
	return &TenantContextResolver{tokens: tokens, revoked: revoked}
}

// Resolve verifies the bearer credential in header
func (r *TenantContextResolver) Resolve(ctx context.Context, header string) (*Credential, error) {
	if strings.TrimSpace(header) == "" {
		return nil, ErrMissingCredential
	}
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return nil, ErrMalformedHeader
	}

	claims, err := r.tokens.Parse(token)
	if err != nil {
		if errors.Is(err, ErrExpiredToken) {
			return nil, ErrCredentialExpired
		}
		return nil, ErrCredentialInvalid.WithCause(err)
	}
	tc, err := claims.TenantContext()
	if err != nil {
		return nil, ErrCredentialInvalid.WithCause(err)
	}

	if r.revoked != nil && claims.ID != "" {
		revoked, err := r.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, shared.NewInternalError("Failed to check token revocation", err)
		}
		if revoked {
			return nil, ErrCredentialRevoked
		}
	}

	return &Credential{
		Context:   tc,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAtTime(),
	}, nil
}
