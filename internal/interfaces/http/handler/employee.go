package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	identityapp "github.com/retailpos/backend/internal/application/identity"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/interfaces/http/dto"
)

// EmployeeService is the employee use cases the handler needs
type EmployeeService interface {
	Create(ctx context.Context, tc identity.TenantContext, req identityapp.CreateEmployeeRequest) (*identityapp.UserResponse, error)
	List(ctx context.Context, tc identity.TenantContext, filter shared.Filter) (shared.Paginated[identityapp.UserResponse], error)
}

// CreateEmployeeBody is the body of POST /employees
type CreateEmployeeBody struct {
	Email   string     `json:"email" binding:"required,email,max=255"`
	Name    string     `json:"name" binding:"required,notblank,max=100"`
	Role    string     `json:"role" binding:"required,oneof=MANAGER CASHIER"`
	StoreID *uuid.UUID `json:"store_id"`
}

// EmployeeHandler handles employee endpoints
type EmployeeHandler struct {
	BaseHandler
	employees EmployeeService
}

// NewEmployeeHandler creates a new EmployeeHandler
func NewEmployeeHandler(employees EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employees: employees}
}

// Create handles POST /employees
func (h *EmployeeHandler) Create(c *gin.Context) {
	tc, ok := h.TenantContext(c)
	if !ok {
		return
	}
	var body CreateEmployeeBody
	if !h.BindJSON(c, &body) {
		return
	}

	user, err := h.employees.Create(c.Request.Context(), tc, identityapp.CreateEmployeeRequest{
		Email:   body.Email,
		Name:    body.Name,
		Role:    identity.Role(body.Role),
		StoreID: body.StoreID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// List handles GET /employees
func (h *EmployeeHandler) List(c *gin.Context) {
	tc, ok := h.TenantContext(c)
	if !ok {
		return
	}
	var params dto.ListRequest
	if !h.BindQuery(c, &params) {
		return
	}

	page, err := h.employees.List(c.Request.Context(), tc, params.Filter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, dto.NewPageResponse(page))
}
