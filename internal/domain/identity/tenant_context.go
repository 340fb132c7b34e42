package identity

import (
	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
)

// ErrInvalidTenantContext is returned when a credential's identity claims are
// inconsistent. Callers treat it as an authentication failure.
var ErrInvalidTenantContext = shared.NewCategorizedError(
	shared.CategoryUnauthenticated, "INVALID_TENANT_CONTEXT", "Credential identity is invalid",
)

// TenantContext is the trusted identity of the caller of one request. It is
// derived only from a verified credential and is passed explicitly into every
// application service call.
type TenantContext struct {
	UserID  uuid.UUID
	Email   string
	Role    Role
	OwnerID uuid.UUID // the tenant; equals UserID for owners
}

// NewTenantContext validates and builds a tenant context
func NewTenantContext(userID uuid.UUID, email string, role Role, ownerID uuid.UUID) (TenantContext, error) {
	if userID == uuid.Nil || ownerID == uuid.Nil {
		return TenantContext{}, ErrInvalidTenantContext
	}
	if !role.IsValid() {
		return TenantContext{}, ErrInvalidTenantContext
	}
	if role == RoleOwner && ownerID != userID {
		return TenantContext{}, ErrInvalidTenantContext
	}
	if role != RoleOwner && ownerID == userID {
		return TenantContext{}, ErrInvalidTenantContext
	}
	return TenantContext{
		UserID:  userID,
		Email:   email,
		Role:    role,
		OwnerID: ownerID,
	}, nil
}

// TenantContextFor derives the context of an existing user
func TenantContextFor(u *User) (TenantContext, error) {
	return NewTenantContext(u.ID, u.Email, u.Role, u.TenantID())
}

// TenantID returns the isolation boundary of the caller
func (tc TenantContext) TenantID() uuid.UUID {
	return tc.OwnerID
}

// IsOwner reports whether the caller is the tenant's owner
func (tc TenantContext) IsOwner() bool {
	return tc.Role == RoleOwner
}

// IsZero reports whether the context was never resolved
func (tc TenantContext) IsZero() bool {
	return tc.UserID == uuid.Nil
}
