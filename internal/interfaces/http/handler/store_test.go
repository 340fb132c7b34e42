package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/retailpos/backend/internal/application/catalog"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newStoreEngine(tc identity.TenantContext) (*gin.Engine, *MockStoreService) {
	stores := new(MockStoreService)
	h := NewStoreHandler(stores)
	engine := newTestEngine(tc)
	engine.POST("/stores", h.Create)
	engine.GET("/stores", h.List)
	engine.GET("/stores/:id", h.Get)
	engine.DELETE("/stores/:id", h.Delete)
	return engine, stores
}

func TestStoreHandler(t *testing.T) {
	t.Run("create", func(t *testing.T) {
		tc := testCaller(t, identity.RoleOwner)
		engine, stores := newStoreEngine(tc)
		stores.On("Create", mock.Anything, tc, catalogapp.CreateStoreRequest{Name: "Main Street", Phone: "555-0100"}).
			Return(&catalogapp.StoreResponse{ID: uuid.New(), OwnerID: tc.OwnerID, Name: "Main Street"}, nil)

		w := doRequest(engine, http.MethodPost, "/stores", map[string]any{"name": "Main Street", "phone": "555-0100"})
		assert.Equal(t, http.StatusCreated, w.Code)
		stores.AssertExpectations(t)
	})

	t.Run("create requires a name", func(t *testing.T) {
		engine, stores := newStoreEngine(testCaller(t, identity.RoleOwner))
		w := doRequest(engine, http.MethodPost, "/stores", map[string]any{"name": "  "})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decode(t, w)
		require.Len(t, env.Error.Details, 1)
		assert.Equal(t, "name", env.Error.Details[0].Field)
		stores.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("create is forbidden for managers", func(t *testing.T) {
		tc := testCaller(t, identity.RoleManager)
		engine, stores := newStoreEngine(tc)
		stores.On("Create", mock.Anything, tc, mock.Anything).Return(nil, identity.ErrPermissionDenied)

		w := doRequest(engine, http.MethodPost, "/stores", map[string]any{"name": "Branch"})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("list", func(t *testing.T) {
		tc := testCaller(t, identity.RoleCashier)
		engine, stores := newStoreEngine(tc)
		stores.On("List", mock.Anything, tc, shared.Filter{Page: 1, PageSize: 20}).
			Return(shared.NewPaginated([]catalogapp.StoreResponse{{Name: "A"}, {Name: "B"}}, 2, 1, 20), nil)

		w := doRequest(engine, http.MethodGet, "/stores", nil)
		require.Equal(t, http.StatusOK, w.Code)
		env := decode(t, w)
		assert.Equal(t, int64(2), env.Meta.Total)
		assert.Equal(t, 1, env.Meta.TotalPages)
	})

	t.Run("list rejects oversized pages", func(t *testing.T) {
		engine, _ := newStoreEngine(testCaller(t, identity.RoleOwner))
		w := doRequest(engine, http.MethodGet, "/stores?page_size=500", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("get of another tenant's store is 404", func(t *testing.T) {
		tc := testCaller(t, identity.RoleOwner)
		engine, stores := newStoreEngine(tc)
		id := uuid.New()
		stores.On("GetByID", mock.Anything, tc, id).Return(nil, shared.NewNotFoundError("Store"))

		w := doRequest(engine, http.MethodGet, "/stores/"+id.String(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Store not found", decode(t, w).Error.Message)
	})

	t.Run("delete", func(t *testing.T) {
		tc := testCaller(t, identity.RoleOwner)
		engine, stores := newStoreEngine(tc)
		id := uuid.New()
		stores.On("Delete", mock.Anything, tc, id).Return(nil)

		w := doRequest(engine, http.MethodDelete, "/stores/"+id.String(), nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("delete of a store in use", func(t *testing.T) {
		tc := testCaller(t, identity.RoleOwner)
		engine, stores := newStoreEngine(tc)
		id := uuid.New()
		stores.On("Delete", mock.Anything, tc, id).Return(catalog.ErrStoreInUse)

		w := doRequest(engine, http.MethodDelete, "/stores/"+id.String(), nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decode(t, w)
		assert.Equal(t, dto.ErrCodeValidation, env.Error.Code)
		assert.Equal(t, "STORE_IN_USE", env.Error.Reason)
	})
}
