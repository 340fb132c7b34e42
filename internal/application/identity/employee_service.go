package identity

import (
	"context"
	"errors"

	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// EmployeeService manages the employees of a tenant
type EmployeeService struct {
	gate   *identity.Gate
	users  identity.UserRepository
	stores catalog.StoreRepository
	logger *zap.Logger
}

// NewEmployeeService creates a new EmployeeService
func NewEmployeeService(
	gate *identity.Gate,
	users identity.UserRepository,
	stores catalog.StoreRepository,
	logger *zap.Logger,
) *EmployeeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeService{
		gate:   gate,
		users:  users,
		stores: stores,
		logger: logger,
	}
}

// Create adds an employee to the caller's tenant. Managers may only add
// cashiers.
func (s *EmployeeService) Create(ctx context.Context, tc identity.TenantContext, req CreateEmployeeRequest) (*UserResponse, error) {
	if err := s.gate.AuthorizeEmployeeCreation(tc, req.Role); err != nil {
		return nil, err
	}

	if req.StoreID != nil {
		if _, err := s.stores.FindByIDForTenant(ctx, tc.TenantID(), *req.StoreID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewNotFoundError("Store")
			}
			return nil, err
		}
	}

	user, err := identity.NewEmployee(tc.TenantID(), req.Email, req.Name, req.Role, req.StoreID)
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("Employee created",
		zap.String("owner_id", tc.TenantID().String()),
		zap.String("employee_id", user.ID.String()),
		zap.String("role", string(user.Role)),
		zap.String("created_by", tc.UserID.String()),
	)
	resp := ToUserResponse(user)
	return &resp, nil
}

// List returns a page of the tenant's employees
func (s *EmployeeService) List(ctx context.Context, tc identity.TenantContext, filter shared.Filter) (shared.Paginated[UserResponse], error) {
	if err := s.gate.Authorize(tc, identity.OpEmployeeList); err != nil {
		return shared.Paginated[UserResponse]{}, err
	}
	filter = filter.Normalize()
	users, total, err := s.users.FindEmployeesForTenant(ctx, tc.TenantID(), filter)
	if err != nil {
		return shared.Paginated[UserResponse]{}, err
	}
	items := make([]UserResponse, len(users))
	for i, u := range users {
		items[i] = ToUserResponse(u)
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}
