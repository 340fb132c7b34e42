package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	inventoryapp "github.com/retailpos/backend/internal/application/inventory"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/interfaces/http/dto"
)

// StockService is the stock use cases the handler needs
type StockService interface {
	AdjustStock(ctx context.Context, tc identity.TenantContext, variantID uuid.UUID, req inventoryapp.AdjustStockRequest) (*inventoryapp.StockMovementResponse, error)
	ListMovements(ctx context.Context, tc identity.TenantContext, variantID uuid.UUID, filter shared.Filter) (shared.Paginated[inventoryapp.StockMovementResponse], error)
}

// AdjustStockBody is the body of POST /variants/:id/stock-adjustments.
// Delta is signed, never zero and at most 1000000 in magnitude.
type AdjustStockBody struct {
	Delta  int64  `json:"delta" binding:"required,min=-1000000,max=1000000"`
	Reason string `json:"reason" binding:"required,notblank,max=255"`
}

// StockHandler handles stock adjustment and ledger endpoints
type StockHandler struct {
	BaseHandler
	stock StockService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stock StockService) *StockHandler {
	return &StockHandler{stock: stock}
}

// Adjust handles POST /variants/:id/stock-adjustments
func (h *StockHandler) Adjust(c *gin.Context) {
	tc, ok := h.TenantContext(c)
	if !ok {
		return
	}
	variantID, ok := h.PathID(c)
	if !ok {
		return
	}
	var body AdjustStockBody
	if !h.BindJSON(c, &body) {
		return
	}

	movement, err := h.stock.AdjustStock(c.Request.Context(), tc, variantID, inventoryapp.AdjustStockRequest{
		Delta:  body.Delta,
		Reason: body.Reason,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, movement)
}

// Movements handles GET /variants/:id/stock-movements
func (h *StockHandler) Movements(c *gin.Context) {
	tc, ok := h.TenantContext(c)
	if !ok {
		return
	}
	variantID, ok := h.PathID(c)
	if !ok {
		return
	}
	var params dto.ListRequest
	if !h.BindQuery(c, &params) {
		return
	}

	page, err := h.stock.ListMovements(c.Request.Context(), tc, variantID, params.Filter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, dto.NewPageResponse(page))
}
