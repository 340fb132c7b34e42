package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	identityapp "github.com/retailpos/backend/internal/application/identity"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newEmployeeEngine(tc identity.TenantContext) (*gin.Engine, *MockEmployeeService) {
	svc := new(MockEmployeeService)
	h := NewEmployeeHandler(svc)
	engine := newTestEngine(tc)
	engine.POST("/employees", h.Create)
	engine.GET("/employees", h.List)
	return engine, svc
}

func TestEmployeeHandler(t *testing.T) {
	t.Run("create cashier with store", func(t *testing.T) {
		tc := testCaller(t, identity.RoleManager)
		engine, svc := newEmployeeEngine(tc)
		storeID := uuid.New()
		svc.On("Create", mock.Anything, tc, identityapp.CreateEmployeeRequest{
			Email: "kim@example.com", Name: "Kim", Role: identity.RoleCashier, StoreID: &storeID,
		}).Return(&identityapp.UserResponse{ID: uuid.New(), Role: "CASHIER"}, nil)

		w := doRequest(engine, http.MethodPost, "/employees", map[string]any{
			"email": "kim@example.com", "name": "Kim", "role": "CASHIER", "store_id": storeID,
		})
		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("owner role cannot be requested", func(t *testing.T) {
		engine, svc := newEmployeeEngine(testCaller(t, identity.RoleOwner))
		w := doRequest(engine, http.MethodPost, "/employees", map[string]any{
			"email": "kim@example.com", "name": "Kim", "role": "OWNER",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("manager creating a manager is 403", func(t *testing.T) {
		tc := testCaller(t, identity.RoleManager)
		engine, svc := newEmployeeEngine(tc)
		svc.On("Create", mock.Anything, tc, mock.Anything).
			Return(nil, shared.NewForbiddenError("ROLE_NOT_ASSIGNABLE", "Your role cannot create employees with role MANAGER"))

		w := doRequest(engine, http.MethodPost, "/employees", map[string]any{
			"email": "lee@example.com", "name": "Lee", "role": "MANAGER",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "ROLE_NOT_ASSIGNABLE", decode(t, w).Error.Reason)
	})

	t.Run("list", func(t *testing.T) {
		tc := testCaller(t, identity.RoleOwner)
		engine, svc := newEmployeeEngine(tc)
		svc.On("List", mock.Anything, tc, shared.Filter{Page: 1, PageSize: 50}).
			Return(shared.NewPaginated([]identityapp.UserResponse{{Email: "kim@example.com"}}, 1, 1, 50), nil)

		w := doRequest(engine, http.MethodGet, "/employees?page_size=50", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, string(decode(t, w).Data), "kim@example.com")
	})
}
