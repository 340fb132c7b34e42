package identity

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User is an owner or an employee of a tenant.
// OwnerID is nil only for owners, who are the root of their own tenant.
type User struct {
	shared.BaseEntity
	OwnerID *uuid.UUID
	StoreID *uuid.UUID // store an employee works at, if assigned
	Email   string
	Name    string
	Role    Role
	Active  bool
}

// NewOwner creates the root user of a new tenant
func NewOwner(email, name string) (*User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	return &User{
		BaseEntity: shared.NewBaseEntity(),
		Email:      email,
		Name:       strings.TrimSpace(name),
		Role:       RoleOwner,
		Active:     true,
	}, nil
}

// NewEmployee creates a MANAGER or CASHIER within the tenant ownerID
func NewEmployee(ownerID uuid.UUID, email, name string, role Role, storeID *uuid.UUID) (*User, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Employee must belong to a tenant")
	}
	if role != RoleManager && role != RoleCashier {
		return nil, shared.NewDomainError("INVALID_ROLE", "Employee role must be MANAGER or CASHIER")
	}
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	owner := ownerID
	return &User{
		BaseEntity: shared.NewBaseEntity(),
		OwnerID:    &owner,
		StoreID:    storeID,
		Email:      email,
		Name:       strings.TrimSpace(name),
		Role:       role,
		Active:     true,
	}, nil
}

// TenantID returns the tenant the user belongs to
func (u *User) TenantID() uuid.UUID {
	if u.Role == RoleOwner {
		return u.ID
	}
	if u.OwnerID == nil {
		return uuid.Nil
	}
	return *u.OwnerID
}

// CanActAsCashierFor reports whether the user may ring up a sale for the
// tenant: any member of the tenant, or the owner personally.
func (u *User) CanActAsCashierFor(tenantID uuid.UUID) bool {
	if !u.Active || tenantID == uuid.Nil {
		return false
	}
	if u.OwnerID != nil && *u.OwnerID == tenantID {
		return true
	}
	return u.ID == tenantID && u.Role == RoleOwner
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return "", shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return "", shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return email, nil
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 100 characters")
	}
	return nil
}
