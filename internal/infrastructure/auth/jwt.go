package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/infrastructure/config"
)

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrInvalidClaims    = errors.New("invalid token claims")
)

// Claims carries the caller identity. owner_id equals user_id for owners.
type Claims struct {
	jwt.RegisteredClaims
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	OwnerID string `json:"owner_id"`
}

// TenantContext validates the identity claims and converts them
func (c *Claims) TenantContext() (identity.TenantContext, error) {
	userID, err := uuid.Parse(c.UserID)
	if err != nil {
		return identity.TenantContext{}, ErrInvalidClaims
	}
	ownerID, err := uuid.Parse(c.OwnerID)
	if err != nil {
		return identity.TenantContext{}, ErrInvalidClaims
	}
	role, ok := identity.ParseRole(c.Role)
	if !ok {
		return identity.TenantContext{}, ErrInvalidClaims
	}
	if c.Subject != "" && c.Subject != c.UserID {
		return identity.TenantContext{}, ErrInvalidClaims
	}
	tc, err := identity.NewTenantContext(userID, c.Email, role, ownerID)
	if err != nil {
		return identity.TenantContext{}, ErrInvalidClaims
	}
	return tc, nil
}

// ExpiresAtTime returns the expiry, or the zero time when absent
func (c *Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// JWTService signs and verifies HS256 credentials
type JWTService struct {
	secret     []byte
	expiration time.Duration
	issuer     string
	now        func() time.Time
}

// NewJWTService creates a new JWT service
func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{
		secret:     []byte(cfg.Secret),
		expiration: cfg.AccessTokenExpiration,
		issuer:     cfg.Issuer,
		now:        time.Now,
	}
}

// Issue signs a credential for tc and returns it with its id and expiry
func (s *JWTService) Issue(tc identity.TenantContext) (string, string, time.Time, error) {
	if tc.IsZero() {
		return "", "", time.Time{}, ErrInvalidClaims
	}
	now := s.now()
	expiresAt := now.Add(s.expiration)
	jti := uuid.New().String()

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    s.issuer,
			Subject:   tc.UserID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID:  tc.UserID.String(),
		Email:   tc.Email,
		Role:    tc.Role.String(),
		OwnerID: tc.OwnerID.String(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", "", time.Time{}, err
	}
	return token, jti, expiresAt, nil
}

// Parse verifies the signature, the signing method, the time window and
// the issuer, and returns the claims
func (s *JWTService) Parse(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, opts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrTokenNotYetValid
		default:
			return nil, ErrInvalidToken
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}

// Expiration returns the lifetime of issued credentials
func (s *JWTService) Expiration() time.Duration {
	return s.expiration
}
