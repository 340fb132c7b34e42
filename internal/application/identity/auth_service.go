package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// TokenIssuer signs credentials for a resolved identity
type TokenIssuer interface {
	Issue(tc identity.TenantContext) (token, tokenID string, expiresAt time.Time, err error)
}

// TokenRevoker records revoked credential ids until they expire
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
}

// ErrUserInactive is returned when issuing a credential for a disabled user
var ErrUserInactive = shared.NewDomainError("USER_INACTIVE", "User is not active")

// AuthService issues and revokes credentials
type AuthService struct {
	users   identity.UserRepository
	issuer  TokenIssuer
	revoker TokenRevoker
	logger  *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	users identity.UserRepository,
	issuer TokenIssuer,
	revoker TokenRevoker,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:   users,
		issuer:  issuer,
		revoker: revoker,
		logger:  logger,
	}
}

// RegisterOwner creates the root user of a new tenant and issues its first
// credential
func (s *AuthService) RegisterOwner(ctx context.Context, email, name string) (*IssuedToken, error) {
	owner, err := identity.NewOwner(email, name)
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, owner); err != nil {
		return nil, err
	}
	s.logger.Info("Owner registered", zap.String("owner_id", owner.ID.String()))
	return s.issueFor(owner)
}

// IssueForUser issues a credential for an existing user
func (s *AuthService) IssueForUser(ctx context.Context, userID uuid.UUID) (*IssuedToken, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("User")
		}
		return nil, err
	}
	return s.issueFor(user)
}

// IssueForEmail issues a credential for the user with email
func (s *AuthService) IssueForEmail(ctx context.Context, email string) (*IssuedToken, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("User")
		}
		return nil, err
	}
	return s.issueFor(user)
}

// Logout revokes the presented credential until it would have expired
func (s *AuthService) Logout(ctx context.Context, tc identity.TenantContext, tokenID string, expiresAt time.Time) error {
	if tc.IsZero() {
		return shared.ErrUnauthenticated
	}
	if tokenID == "" {
		return shared.NewDomainError("TOKEN_ID_REQUIRED", "Credential has no id to revoke")
	}
	if err := s.revoker.Revoke(ctx, tokenID, expiresAt); err != nil {
		return shared.NewInternalError("Failed to revoke credential", err)
	}
	s.logger.Info("User logout",
		zap.String("user_id", tc.UserID.String()),
		zap.String("owner_id", tc.TenantID().String()))
	return nil
}

func (s *AuthService) issueFor(user *identity.User) (*IssuedToken, error) {
	if !user.Active {
		return nil, ErrUserInactive
	}
	tc, err := identity.TenantContextFor(user)
	if err != nil {
		return nil, err
	}
	token, tokenID, expiresAt, err := s.issuer.Issue(tc)
	if err != nil {
		return nil, shared.NewInternalError("Failed to issue credential", err)
	}
	return &IssuedToken{
		Token:     token,
		TokenID:   tokenID,
		ExpiresAt: expiresAt,
		User:      ToUserResponse(user),
	}, nil
}
