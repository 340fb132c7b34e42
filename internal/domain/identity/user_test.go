package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOwner(t *testing.T) {
	t.Run("owner is its own tenant", func(t *testing.T) {
		owner, err := NewOwner("  Owner@Shop.Example ", "Ada")
		require.NoError(t, err)

		assert.Nil(t, owner.OwnerID)
		assert.Equal(t, RoleOwner, owner.Role)
		assert.Equal(t, owner.ID, owner.TenantID())
		assert.Equal(t, "owner@shop.example", owner.Email)
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		_, err := NewOwner("not-an-email", "Ada")
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestNewEmployee(t *testing.T) {
	ownerID := uuid.New()

	t.Run("creates cashier", func(t *testing.T) {
		emp, err := NewEmployee(ownerID, "c@shop.example", "Cas", RoleCashier, nil)
		require.NoError(t, err)
		require.NotNil(t, emp.OwnerID)
		assert.Equal(t, ownerID, emp.TenantID())
	})

	t.Run("rejects owner role", func(t *testing.T) {
		_, err := NewEmployee(ownerID, "c@shop.example", "Cas", RoleOwner, nil)
		assert.Error(t, err)
	})

	t.Run("rejects missing tenant", func(t *testing.T) {
		_, err := NewEmployee(uuid.Nil, "c@shop.example", "Cas", RoleCashier, nil)
		assert.Error(t, err)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewEmployee(ownerID, "c@shop.example", "  ", RoleCashier, nil)
		assert.Error(t, err)
	})
}

func TestUser_CanActAsCashierFor(t *testing.T) {
	owner, err := NewOwner("o@shop.example", "Owner")
	require.NoError(t, err)
	cashier, err := NewEmployee(owner.ID, "c@shop.example", "Cashier", RoleCashier, nil)
	require.NoError(t, err)
	otherOwner, err := NewOwner("x@other.example", "Other")
	require.NoError(t, err)

	assert.True(t, cashier.CanActAsCashierFor(owner.ID))
	assert.True(t, owner.CanActAsCashierFor(owner.ID), "owner may ring up sales personally")
	assert.False(t, otherOwner.CanActAsCashierFor(owner.ID))
	assert.False(t, cashier.CanActAsCashierFor(otherOwner.ID))

	cashier.Active = false
	assert.False(t, cashier.CanActAsCashierFor(owner.ID))
}

func TestNewTenantContext(t *testing.T) {
	userID := uuid.New()
	ownerID := uuid.New()

	tests := []struct {
		name    string
		userID  uuid.UUID
		role    Role
		ownerID uuid.UUID
		wantErr bool
	}{
		{"owner with matching owner id", userID, RoleOwner, userID, false},
		{"owner with foreign owner id", userID, RoleOwner, ownerID, true},
		{"cashier in tenant", userID, RoleCashier, ownerID, false},
		{"manager claiming to be own tenant", userID, RoleManager, userID, true},
		{"unknown role", userID, Role("ROOT"), ownerID, true},
		{"missing user", uuid.Nil, RoleCashier, ownerID, true},
		{"missing owner", userID, RoleCashier, uuid.Nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc, err := NewTenantContext(tt.userID, "u@example.com", tt.role, tt.ownerID)
			if tt.wantErr {
				assert.ErrorIs(t, err, shared.ErrUnauthenticated)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.ownerID, tc.TenantID())
		})
	}
}

func TestParseRole(t *testing.T) {
	r, ok := ParseRole(" manager ")
	assert.True(t, ok)
	assert.Equal(t, RoleManager, r)

	_, ok = ParseRole("admin")
	assert.False(t, ok)
}
