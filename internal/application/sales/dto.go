package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest is a request to record a sale, return or refund
type CreateTransactionRequest struct {
	StoreID                uuid.UUID
	CashierID              uuid.UUID
	Type                   sales.Type
	PaymentMethod          sales.PaymentMethod
	Items                  []CreateTransactionItemInput
	Tax                    decimal.Decimal
	Discount               decimal.Decimal
	AmountPaid             *decimal.Decimal
	ReferenceTransactionID *uuid.UUID
	Notes                  string
	// IdempotencyKey, when set, makes a retried request fail with
	// DuplicateIdentifier instead of committing twice.
	IdempotencyKey string
}

// CreateTransactionItemInput is one requested line
type CreateTransactionItemInput struct {
	VariantID uuid.UUID
	Quantity  int64
	Discount  decimal.Decimal
}

// mergeItems folds repeated variant ids into a single line, summing
// quantities and line discounts and keeping first-seen order
func (r CreateTransactionRequest) mergeItems() CreateTransactionRequest {
	index := make(map[uuid.UUID]int, len(r.Items))
	merged := make([]CreateTransactionItemInput, 0, len(r.Items))
	for _, item := range r.Items {
		if i, ok := index[item.VariantID]; ok {
			merged[i].Quantity += item.Quantity
			merged[i].Discount = merged[i].Discount.Add(item.Discount)
			continue
		}
		index[item.VariantID] = len(merged)
		merged = append(merged, item)
	}
	r.Items = merged
	return r
}

func (r CreateTransactionRequest) variantIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(r.Items))
	for i, item := range r.Items {
		ids[i] = item.VariantID
	}
	return ids
}

// draft builds an unresolved draft; lines carry no variant yet
func (r CreateTransactionRequest) draft(ownerID uuid.UUID) sales.Draft {
	lines := make([]sales.Line, len(r.Items))
	for i, item := range r.Items {
		lines[i] = sales.Line{Quantity: item.Quantity, Discount: item.Discount}
	}
	method := r.PaymentMethod
	if method == "" {
		method = sales.PaymentCash
	}
	return sales.Draft{
		OwnerID:                ownerID,
		StoreID:                r.StoreID,
		CashierID:              r.CashierID,
		Type:                   r.Type,
		PaymentMethod:          method,
		Tax:                    r.Tax,
		Discount:               r.Discount,
		AmountPaid:             r.AmountPaid,
		ReferenceTransactionID: r.ReferenceTransactionID,
		Notes:                  r.Notes,
		Lines:                  lines,
	}
}

// TransactionResponse is the caller view of a transaction
type TransactionResponse struct {
	ID                     uuid.UUID                 `json:"id"`
	TransactionNumber      string                    `json:"transaction_number"`
	Type                   string                    `json:"type"`
	StoreID                uuid.UUID                 `json:"store_id"`
	CashierID              uuid.UUID                 `json:"cashier_id"`
	ReferenceTransactionID *uuid.UUID                `json:"reference_transaction_id,omitempty"`
	Subtotal               decimal.Decimal           `json:"subtotal"`
	Tax                    decimal.Decimal           `json:"tax"`
	Discount               decimal.Decimal           `json:"discount"`
	Total                  decimal.Decimal           `json:"total"`
	AmountPaid             decimal.Decimal           `json:"amount_paid"`
	Change                 decimal.Decimal           `json:"change"`
	PaymentMethod          string                    `json:"payment_method"`
	Notes                  string                    `json:"notes,omitempty"`
	Items                  []TransactionItemResponse `json:"items,omitempty"`
	CreatedAt              time.Time                 `json:"created_at"`
}

// TransactionItemResponse is the caller view of a transaction line
type TransactionItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	VariantID   uuid.UUID       `json:"variant_id"`
	ProductName string          `json:"product_name"`
	VariantName string          `json:"variant_name"`
	SKU         string          `json:"sku"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// ToTransactionResponse converts a domain transaction
func ToTransactionResponse(t *sales.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:                     t.ID,
		TransactionNumber:      t.TransactionNumber,
		Type:                   string(t.Type),
		StoreID:                t.StoreID,
		CashierID:              t.CashierID,
		ReferenceTransactionID: t.ReferenceTransactionID,
		Subtotal:               t.Subtotal,
		Tax:                    t.Tax,
		Discount:               t.Discount,
		Total:                  t.Total,
		AmountPaid:             t.AmountPaid,
		Change:                 t.Change,
		PaymentMethod:          string(t.PaymentMethod),
		Notes:                  t.Notes,
		CreatedAt:              t.CreatedAt,
	}
	if len(t.Items) > 0 {
		resp.Items = make([]TransactionItemResponse, len(t.Items))
		for i, item := range t.Items {
			resp.Items[i] = TransactionItemResponse{
				ID:          item.ID,
				VariantID:   item.VariantID,
				ProductName: item.ProductName,
				VariantName: item.VariantName,
				SKU:         item.SKU,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
				Discount:    item.Discount,
				Subtotal:    item.Subtotal,
			}
		}
	}
	return resp
}

// ToTransactionResponses converts a slice of domain transactions
func ToTransactionResponses(txns []*sales.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(txns))
	for i, t := range txns {
		out[i] = ToTransactionResponse(t)
	}
	return out
}

// ListTransactionsQuery filters a tenant's transactions
type ListTransactionsQuery struct {
	Page      int
	PageSize  int
	StoreID   *uuid.UUID
	CashierID *uuid.UUID
	Type      *sales.Type
	From      *time.Time
	To        *time.Time
}

func (q ListTransactionsQuery) filter() sales.TransactionFilter {
	f := sales.TransactionFilter{
		StoreID:   q.StoreID,
		CashierID: q.CashierID,
		Type:      q.Type,
		From:      q.From,
		To:        q.To,
	}
	f.Page = q.Page
	f.PageSize = q.PageSize
	f.Filter = f.Filter.Normalize()
	return f
}
