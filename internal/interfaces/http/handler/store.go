package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/retailpos/backend/internal/application/catalog"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/interfaces/http/dto"
)

// StoreService is the store use cases the handler needs
type StoreService interface {
	Create(ctx context.Context, tc identity.TenantContext, req catalogapp.CreateStoreRequest) (*catalogapp.StoreResponse, error)
	GetByID(ctx context.Context, tc identity.TenantContext, id uuid.UUID) (*catalogapp.StoreResponse, error)
	List(ctx context.Context, tc identity.TenantContext, filter shared.Filter) (shared.Paginated[catalogapp.StoreResponse], error)
	Delete(ctx context.Context, tc identity.TenantContext, id uuid.UUID) error
}

// CreateStoreBody is the body of POST /stores
type CreateStoreBody struct {
	Name    string `json:"name" binding:"required,notblank,max=100"`
	Address string `json:"address" binding:"max=255"`
	Phone   string `json:"phone" binding:"max=32"`
}

// StoreHandler handles store endpoints
type StoreHandler struct {
	BaseHandler
	stores StoreService
}

// NewStoreHandler creates a new StoreHandler
func NewStoreHandler(stores StoreService) *StoreHandler {
	return &StoreHandler{stores: stores}
}

// Create handles POST /stores
func (h *StoreHandler) Create(c *gin.Context) {
	tc, ok := h.TenantContext(c)
	if !ok {
		return
	}
	var body CreateStoreBody
	if !h.BindJSON(c, &body) {
		return
	}

	store, err := h.stores.Create(c.Request.Context(), tc, catalogapp.CreateStoreRequest{
		Name:    body.Name,
		Address: body.Address,
		Phone:   body.Phone,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, store)
}

// Get handles GET /stores/:id
func (h *StoreHandler) Get(c *gin.Context) {
	tc, ok := h.TenantContext(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c)
	if !ok {
		return
	}

	store, err := h.stores.GetByID(c.Request.Context(), tc, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, store)
}

// List handles GET /stores
func (h *StoreHandler) List(c *gin.Context) {
	tc, ok := h.TenantContext(c)
	if !ok {
		return
	}
	var params dto.ListRequest
	if !h.BindQuery(c, &params) {
		return
	}

	page, err := h.stores.List(c.Request.Context(), tc, params.Filter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, dto.NewPageResponse(page))
}

// Delete handles DELETE /stores/:id
func (h *StoreHandler) Delete(c *gin.Context) {
	tc, ok := h.TenantContext(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c)
	if !ok {
		return
	}

	if err := h.stores.Delete(c.Request.Context(), tc, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
