package handler

import (
	"math"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	inventoryapp "github.com/retailpos/backend/internal/application/inventory"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newStockEngine(tc identity.TenantContext) (*gin.Engine, *MockStockService) {
	svc := new(MockStockService)
	h := NewStockHandler(svc)
	engine := newTestEngine(tc)
	engine.POST("/variants/:id/stock-adjustments", h.Adjust)
	engine.GET("/variants/:id/stock-movements", h.Movements)
	return engine, svc
}

func TestStockHandler_Adjust(t *testing.T) {
	t.Run("applies a negative correction", func(t *testing.T) {
		tc := testCaller(t, identity.RoleManager)
		engine, svc := newStockEngine(tc)
		variantID := uuid.New()
		svc.On("AdjustStock", mock.Anything, tc, variantID, inventoryapp.AdjustStockRequest{Delta: -3, Reason: "Damaged"}).
			Return(&inventoryapp.StockMovementResponse{VariantID: variantID, Delta: -3, BalanceBefore: 10, BalanceAfter: 7}, nil)

		w := doRequest(engine, http.MethodPost, "/variants/"+variantID.String()+"/stock-adjustments",
			map[string]any{"delta": -3, "reason": "Damaged"})
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, string(decode(t, w).Data), `"balance_after":7`)
	})

	t.Run("reason is required", func(t *testing.T) {
		engine, svc := newStockEngine(testCaller(t, identity.RoleOwner))
		w := doRequest(engine, http.MethodPost, "/variants/"+uuid.NewString()+"/stock-adjustments",
			map[string]any{"delta": 4})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "AdjustStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("zero delta is rejected", func(t *testing.T) {
		engine, _ := newStockEngine(testCaller(t, identity.RoleOwner))
		w := doRequest(engine, http.MethodPost, "/variants/"+uuid.NewString()+"/stock-adjustments",
			map[string]any{"delta": 0, "reason": "Count"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("delta beyond the adjustment bound is rejected", func(t *testing.T) {
		engine, svc := newStockEngine(testCaller(t, identity.RoleOwner))
		for _, delta := range []int64{1_000_001, -1_000_001, math.MaxInt64} {
			w := doRequest(engine, http.MethodPost, "/variants/"+uuid.NewString()+"/stock-adjustments",
				map[string]any{"delta": delta, "reason": "Count"})
			assert.Equal(t, http.StatusBadRequest, w.Code)
		}
		svc.AssertNotCalled(t, "AdjustStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("overdraw is 409", func(t *testing.T) {
		tc := testCaller(t, identity.RoleOwner)
		engine, svc := newStockEngine(tc)
		svc.On("AdjustStock", mock.Anything, tc, mock.Anything, mock.Anything).Return(nil, shared.ErrInsufficientStock)

		w := doRequest(engine, http.MethodPost, "/variants/"+uuid.NewString()+"/stock-adjustments",
			map[string]any{"delta": -100, "reason": "Shrinkage"})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, dto.ErrCodeInsufficientStock, decode(t, w).Error.Code)
	})
}

func TestStockHandler_Movements(t *testing.T) {
	tc := testCaller(t, identity.RoleOwner)
	engine, svc := newStockEngine(tc)
	variantID := uuid.New()
	svc.On("ListMovements", mock.Anything, tc, variantID, shared.Filter{Page: 3, PageSize: 20}).
		Return(shared.NewPaginated([]inventoryapp.StockMovementResponse{}, 41, 3, 20), nil)

	w := doRequest(engine, http.MethodGet, "/variants/"+variantID.String()+"/stock-movements?page=3", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	assert.Equal(t, "[]", string(env.Data))
	assert.Equal(t, 3, env.Meta.TotalPages)
}
