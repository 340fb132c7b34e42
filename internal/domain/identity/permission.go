package identity

import (
	"github.com/retailpos/backend/internal/domain/shared"
)

// Operation names an action guarded by the authorization gate
type Operation string

const (
	OpStoreCreate       Operation = "store:create"
	OpStoreDelete       Operation = "store:delete"
	OpStoreRead         Operation = "store:read"
	OpEmployeeCreate    Operation = "employee:create"
	OpEmployeeList      Operation = "employee:list"
	OpCatalogWrite      Operation = "catalog:write"
	OpCatalogRead       Operation = "catalog:read"
	OpTransactionCreate Operation = "transaction:create"
	OpTransactionRead   Operation = "transaction:read"
	OpTransactionStats  Operation = "transaction:stats"
	OpStockAdjust       Operation = "stock:adjust"
	OpStockHistory      Operation = "stock:history"
)

// PermissionMatrix maps an operation to the roles allowed to perform it.
// Anything absent from the matrix is denied.
type PermissionMatrix map[Operation][]Role

// DefaultPermissionMatrix returns the role matrix of the point-of-sale API
func DefaultPermissionMatrix() PermissionMatrix {
	return PermissionMatrix{
		OpStoreCreate:       {RoleOwner},
		OpStoreDelete:       {RoleOwner},
		OpStoreRead:         {RoleOwner, RoleManager, RoleCashier},
		OpEmployeeCreate:    {RoleOwner, RoleManager},
		OpEmployeeList:      {RoleOwner, RoleManager},
		OpCatalogWrite:      {RoleOwner, RoleManager},
		OpCatalogRead:       {RoleOwner, RoleManager, RoleCashier},
		OpTransactionCreate: {RoleOwner, RoleManager, RoleCashier},
		OpTransactionRead:   {RoleOwner, RoleManager},
		OpTransactionStats:  {RoleOwner, RoleManager},
		OpStockAdjust:       {RoleOwner, RoleManager},
		OpStockHistory:      {RoleOwner, RoleManager},
	}
}

// DefaultCreatableRoles returns which employee roles each role may create
func DefaultCreatableRoles() map[Role][]Role {
	return map[Role][]Role{
		RoleOwner:   {RoleManager, RoleCashier},
		RoleManager: {RoleCashier},
	}
}

// ErrPermissionDenied is returned when the caller's role may not perform an operation
var ErrPermissionDenied = shared.NewForbiddenError("PERMISSION_DENIED", "Your role is not allowed to perform this operation")

// Gate decides whether a role may perform an operation. Decisions depend only
// on the matrix, so repeated checks always agree.
type Gate struct {
	allowed   map[Operation]map[Role]struct{}
	creatable map[Role]map[Role]struct{}
}

// NewGate builds a gate from a permission matrix and employee-creation rules
func NewGate(matrix PermissionMatrix, creatable map[Role][]Role) *Gate {
	g := &Gate{
		allowed:   make(map[Operation]map[Role]struct{}, len(matrix)),
		creatable: make(map[Role]map[Role]struct{}, len(creatable)),
	}
	for op, roles := range matrix {
		g.allowed[op] = roleSet(roles)
	}
	for actor, targets := range creatable {
		g.creatable[actor] = roleSet(targets)
	}
	return g
}

// NewDefaultGate returns a gate over the default matrix
func NewDefaultGate() *Gate {
	return NewGate(DefaultPermissionMatrix(), DefaultCreatableRoles())
}

// Allows reports whether role may perform op
func (g *Gate) Allows(role Role, op Operation) bool {
	roles, ok := g.allowed[op]
	if !ok {
		return false
	}
	_, ok = roles[role]
	return ok
}

// Authorize returns ErrPermissionDenied unless the caller may perform op
func (g *Gate) Authorize(tc TenantContext, op Operation) error {
	if tc.IsZero() {
		return shared.ErrUnauthenticated
	}
	if !g.Allows(tc.Role, op) {
		return ErrPermissionDenied
	}
	return nil
}

// AuthorizeEmployeeCreation checks both the operation and the target role
func (g *Gate) AuthorizeEmployeeCreation(tc TenantContext, target Role) error {
	if err := g.Authorize(tc, OpEmployeeCreate); err != nil {
		return err
	}
	targets, ok := g.creatable[tc.Role]
	if !ok {
		return ErrPermissionDenied
	}
	if _, ok := targets[target]; !ok {
		return shared.NewForbiddenError("ROLE_NOT_ASSIGNABLE", "Your role cannot create employees with role "+target.String())
	}
	return nil
}

func roleSet(roles []Role) map[Role]struct{} {
	set := make(map[Role]struct{}, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}
