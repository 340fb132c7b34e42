package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/identity"
)

// CreateEmployeeRequest represents a request to add an employee to the tenant
type CreateEmployeeRequest struct {
	Email   string
	Name    string
	Role    identity.Role
	StoreID *uuid.UUID
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID        uuid.UUID  `json:"id"`
	OwnerID   uuid.UUID  `json:"owner_id"`
	StoreID   *uuid.UUID `json:"store_id,omitempty"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Role      string     `json:"role"`
	Active    bool       `json:"active"`
	CreatedAt time.Time  `json:"created_at"`
}

// ToUserResponse converts a domain user
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		OwnerID:   u.TenantID(),
		StoreID:   u.StoreID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
}

// IssuedToken is a signed credential for a user
type IssuedToken struct {
	Token     string       `json:"token"`
	TokenID   string       `json:"token_id"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}
