package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	salesapp "github.com/retailpos/backend/internal/application/sales"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/sales"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
)

// IdempotencyKeyHeader carries an optional client retry key
const IdempotencyKeyHeader = "Idempotency-Key"

// maxIdempotencyKeyLength bounds the retry key
const maxIdempotencyKeyLength = 128

// ErrIdempotencyKeyTooLong is returned for an oversized Idempotency-Key header
var ErrIdempotencyKeyTooLong = shared.NewDomainError("IDEMPOTENCY_KEY_INVALID", "Idempotency-Key must be at most 128 characters")

// TransactionCommitter records a transaction atomically
type TransactionCommitter interface {
	Commit(ctx context.Context, tc identity.TenantContext, req salesapp.CreateTransactionRequest) (*salesapp.TransactionResponse, error)
}

// TransactionQueries is the read side of transactions
type TransactionQueries interface {
	GetByID(ctx context.Context, tc identity.TenantContext, id uuid.UUID) (*salesapp.TransactionResponse, error)
	List(ctx context.Context, tc identity.TenantContext, query salesapp.ListTransactionsQuery) (shared.Paginated[salesapp.TransactionResponse], error)
	Stats(ctx context.Context, tc identity.TenantContext, query salesapp.ListTransactionsQuery) (*sales.Stats, error)
}

// CreateTransactionBody is the body of POST /transactions. The cashier
// defaults to the caller.
type CreateTransactionBody struct {
	StoreID                uuid.UUID                   `json:"store_id" binding:"required"`
	CashierID              *uuid.UUID                  `json:"cashier_id"`
	Type                   string                      `json:"type" binding:"required,oneof=SALE RETURN REFUND"`
	PaymentMethod          string                      `json:"payment_method" binding:"omitempty,oneof=CASH CARD MOBILE OTHER"`
	Items                  []CreateTransactionItemBody `json:"items" binding:"required,min=1,max=200,dive"`
	Tax                    *decimal.Decimal            `json:"tax"`
	Discount               *decimal.Decimal            `json:"discount"`
	AmountPaid             *decimal.Decimal            `json:"amount_paid"`
	ReferenceTransactionID *uuid.UUID                  `json:"reference_transaction_id"`
	Notes                  string                      `json:"notes" binding:"max=500"`
}

// CreateTransactionItemBody is one requested line
type CreateTransactionItemBody struct {
	VariantID uuid.UUID        `json:"variant_id" binding:"required"`
	Quantity  int64            `json:"quantity" binding:"required,gt=0"`
	Discount  *decimal.Decimal `json:"discount"`
}

// TransactionFilterParams are the query filters of list and stats
type TransactionFilterParams struct {
	StoreID   string     `form:"store_id" binding:"omitempty,uuid"`
	CashierID string     `form:"cashier_id" binding:"omitempty,uuid"`
	Type      string     `form:"type" binding:"omitempty,oneof=SALE RETURN REFUND"`
	From      *time.Time `form:"from"`
	To        *time.Time `form:"to"`
}

// ListTransactionsParams are the query parameters of GET /transactions
type ListTransactionsParams struct {
	dto.ListRequest
	TransactionFilterParams
}

func (p TransactionFilterParams) query() salesapp.ListTransactionsQuery {
	q := salesapp.ListTransactionsQuery{
		StoreID:   parseOptionalUUID(p.StoreID),
		CashierID: parseOptionalUUID(p.CashierID),
		From:      p.From,
		To:        p.To,
	}
	if p.Type != "" {
		typ := sales.Type(p.Type)
		q.Type = &typ
	}
	return q
}

// TransactionHandler handles transaction endpoints
type TransactionHandler struct {
	BaseHandler
	committer TransactionCommitter
	queries   TransactionQueries
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(committer TransactionCommitter, queries TransactionQueries) *TransactionHandler {
	return &TransactionHandler{committer: committer, queries: queries}
}

// Create handles POST /transactions
func (h *TransactionHandler) Create(c *gin.Context) {
	tc, ok := h.TenantContext(c)
	if !ok {
		return
	}
	key := c.GetHeader(IdempotencyKeyHeader)
	if len(key) > maxIdempotencyKeyLength {
		h.HandleError(c, ErrIdempotencyKeyTooLong)
		return
	}
	var body CreateTransactionBody
	if !h.BindJSON(c, &body) {
		return
	}

	req := salesapp.CreateTransactionRequest{
		StoreID:                body.StoreID,
		CashierID:              tc.UserID,
		Type:                   sales.Type(body.Type),
		PaymentMethod:          sales.PaymentMethod(body.PaymentMethod),
		Items:                  make([]salesapp.CreateTransactionItemInput, len(body.Items)),
		Tax:                    decimalOrZero(body.Tax),
		Discount:               decimalOrZero(body.Discount),
		AmountPaid:             body.AmountPaid,
		ReferenceTransactionID: body.ReferenceTransactionID,
		Notes:                  body.Notes,
		IdempotencyKey:         key,
	}
	if body.CashierID != nil {
		req.CashierID = *body.CashierID
	}
	for i, item := range body.Items {
		req.Items[i] = salesapp.CreateTransactionItemInput{
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
			Discount:  decimalOrZero(item.Discount),
		}
	}

	txn, err := h.committer.Commit(c.Request.Context(), tc, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, txn)
}

// Get handles GET /transactions/:id
func (h *TransactionHandler) Get(c *gin.Context) {
	tc, ok := h.TenantContext(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c)
	if !ok {
		return
	}

	txn, err := h.queries.GetByID(c.Request.Context(), tc, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, txn)
}

// List handles GET /transactions
func (h *TransactionHandler) List(c *gin.Context) {
	tc, ok := h.TenantContext(c)
	if !ok {
		return
	}
	var params ListTransactionsParams
	if !h.BindQuery(c, &params) {
		return
	}

	q := params.query()
	q.Page = params.Page
	q.PageSize = params.PageSize
	page, err := h.queries.List(c.Request.Context(), tc, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, dto.NewPageResponse(page))
}

// Stats handles GET /transactions/stats
func (h *TransactionHandler) Stats(c *gin.Context) {
	tc, ok := h.TenantContext(c)
	if !ok {
		return
	}
	var params TransactionFilterParams
	if !h.BindQuery(c, &params) {
		return
	}

	stats, err := h.queries.Stats(c.Request.Context(), tc, params.query())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}
