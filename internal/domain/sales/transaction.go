package sales

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Type is the kind of point-of-sale transaction
type Type string

const (
	TypeSale   Type = "SALE"
	TypeReturn Type = "RETURN"
	TypeRefund Type = "REFUND"
)

// IsValid returns true if the type is known
func (t Type) IsValid() bool {
	switch t {
	case TypeSale, TypeReturn, TypeRefund:
		return true
	}
	return false
}

// StockSign is -1 for types that take goods out of stock and +1 for types
// that put them back.
func (t Type) StockSign() int64 {
	if t == TypeSale {
		return -1
	}
	return 1
}

// MovementSource maps the type to its stock ledger source
func (t Type) MovementSource() inventory.SourceType {
	switch t {
	case TypeReturn:
		return inventory.SourceReturn
	case TypeRefund:
		return inventory.SourceRefund
	default:
		return inventory.SourceSale
	}
}

// PaymentMethod is how the customer settled the transaction
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "CASH"
	PaymentCard   PaymentMethod = "CARD"
	PaymentMobile PaymentMethod = "MOBILE"
	PaymentOther  PaymentMethod = "OTHER"
)

// IsValid returns true if the payment method is known
func (p PaymentMethod) IsValid() bool {
	switch p {
	case PaymentCash, PaymentCard, PaymentMobile, PaymentOther:
		return true
	}
	return false
}

// MaxLineQuantity bounds a single line's quantity
const MaxLineQuantity = 100000

// Transaction is an immutable sale, return or refund. Corrections are new
// transactions of type RETURN or REFUND, never updates.
type Transaction struct {
	shared.OwnedEntity
	shared.EventRecorder
	TransactionNumber      string
	Type                   Type
	StoreID                uuid.UUID
	CashierID              uuid.UUID
	ReferenceTransactionID *uuid.UUID
	Subtotal               decimal.Decimal
	Tax                    decimal.Decimal
	Discount               decimal.Decimal
	Total                  decimal.Decimal
	AmountPaid             decimal.Decimal
	Change                 decimal.Decimal
	PaymentMethod          PaymentMethod
	Notes                  string
	Items                  []*TransactionItem
}

// TransactionItem is one line of a transaction.
// Subtotal = UnitPrice x Quantity - Discount.
type TransactionItem struct {
	ID            uuid.UUID
	TransactionID uuid.UUID
	VariantID     uuid.UUID
	ProductName   string
	VariantName   string
	SKU           string
	Quantity      int64
	UnitPrice     decimal.Decimal
	Discount      decimal.Decimal
	Subtotal      decimal.Decimal
}

// Line is a requested line after its variant has been resolved in the tenant
type Line struct {
	Variant  *catalog.ProductVariant
	Quantity int64
	Discount decimal.Decimal
}

// Draft is a validated request ready for computation
type Draft struct {
	OwnerID                uuid.UUID
	StoreID                uuid.UUID
	CashierID              uuid.UUID
	Type                   Type
	PaymentMethod          PaymentMethod
	Tax                    decimal.Decimal
	Discount               decimal.Decimal
	AmountPaid             *decimal.Decimal
	ReferenceTransactionID *uuid.UUID
	Notes                  string
	Lines                  []Line
}

// Totals holds the computed amounts of a draft
type Totals struct {
	ItemSubtotals []valueobject.Money
	Subtotal      valueobject.Money
	Tax           valueobject.Money
	Discount      valueobject.Money
	Total         valueobject.Money
	AmountPaid    valueobject.Money
	Change        valueobject.Money
}

// ComputeTotals applies the pricing rules:
//
//	itemSubtotal = unitPrice x quantity - lineDiscount
//	subtotal     = sum(itemSubtotal)
//	total        = subtotal + tax - discount
//	amountPaid   = total when not supplied
//	change       = max(0, amountPaid - total)
func (d Draft) ComputeTotals() (Totals, error) {
	t := Totals{
		ItemSubtotals: make([]valueobject.Money, len(d.Lines)),
		Subtotal:      valueobject.Zero(),
		Tax:           valueobject.NewMoney(d.Tax),
		Discount:      valueobject.NewMoney(d.Discount),
	}

	for i, line := range d.Lines {
		unit := valueobject.NewMoney(line.Variant.SellingPrice)
		gross := unit.MultiplyByInt(line.Quantity)
		lineDiscount := valueobject.NewMoney(line.Discount)
		if lineDiscount.GreaterThan(gross) {
			return Totals{}, shared.NewDomainError("INVALID_LINE_DISCOUNT", "Line discount exceeds the line amount for SKU "+line.Variant.SKU)
		}
		t.ItemSubtotals[i] = gross.Subtract(lineDiscount)
		t.Subtotal = t.Subtotal.Add(t.ItemSubtotals[i])
	}

	t.Total = t.Subtotal.Add(t.Tax).Subtract(t.Discount)
	if t.Total.IsNegative() {
		return Totals{}, shared.NewDomainError("INVALID_DISCOUNT", "Discount exceeds the transaction amount")
	}

	t.AmountPaid = t.Total
	if d.AmountPaid != nil {
		t.AmountPaid = valueobject.NewMoney(*d.AmountPaid)
	}
	if d.Type == TypeSale && t.AmountPaid.LessThan(t.Total) {
		return Totals{}, shared.NewDomainError("INSUFFICIENT_PAYMENT", "Amount paid is less than the total")
	}
	t.Change = t.AmountPaid.Subtract(t.Total).NonNegative()
	return t, nil
}

// Validate checks request shape. It runs before any lookup or write.
func (d Draft) Validate() error {
	if d.OwnerID == uuid.Nil {
		return shared.NewDomainError("INVALID_OWNER", "Transaction must belong to a tenant")
	}
	if d.StoreID == uuid.Nil {
		return shared.NewDomainError("STORE_REQUIRED", "Store is required")
	}
	if d.CashierID == uuid.Nil {
		return shared.NewDomainError("CASHIER_REQUIRED", "Cashier is required")
	}
	if !d.Type.IsValid() {
		return shared.NewDomainError("INVALID_TYPE", "Transaction type must be SALE, RETURN or REFUND")
	}
	if !d.PaymentMethod.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method")
	}
	if d.Type == TypeSale && d.ReferenceTransactionID != nil {
		return shared.NewDomainError("INVALID_REFERENCE", "Only returns and refunds may reference a transaction")
	}
	if d.Tax.IsNegative() || d.Discount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Tax and discount cannot be negative")
	}
	if d.AmountPaid != nil && d.AmountPaid.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount paid cannot be negative")
	}
	if len(strings.TrimSpace(d.Notes)) > 500 {
		return shared.NewDomainError("INVALID_NOTES", "Notes cannot exceed 500 characters")
	}
	return ValidateLineShapes(len(d.Lines), func(i int) (int64, decimal.Decimal) {
		return d.Lines[i].Quantity, d.Lines[i].Discount
	})
}

// ValidateLineShapes checks item count, quantities and discounts
func ValidateLineShapes(n int, line func(i int) (quantity int64, discount decimal.Decimal)) error {
	if n == 0 {
		return shared.NewDomainError("EMPTY_ITEMS", "At least one item is required")
	}
	for i := 0; i < n; i++ {
		qty, discount := line(i)
		if qty <= 0 {
			return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
		}
		if qty > MaxLineQuantity {
			return shared.NewDomainError("INVALID_QUANTITY", "Quantity exceeds the per-line limit")
		}
		if discount.IsNegative() {
			return shared.NewDomainError("INVALID_LINE_DISCOUNT", "Line discount cannot be negative")
		}
	}
	return nil
}

// Build validates and computes the draft into a transaction numbered number
func (d Draft) Build(number string) (*Transaction, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Transaction number is required")
	}
	totals, err := d.ComputeTotals()
	if err != nil {
		return nil, err
	}

	txn := &Transaction{
		OwnedEntity:            shared.NewOwnedEntity(d.OwnerID),
		TransactionNumber:      number,
		Type:                   d.Type,
		StoreID:                d.StoreID,
		CashierID:              d.CashierID,
		ReferenceTransactionID: d.ReferenceTransactionID,
		Subtotal:               totals.Subtotal.Amount(),
		Tax:                    totals.Tax.Amount(),
		Discount:               totals.Discount.Amount(),
		Total:                  totals.Total.Amount(),
		AmountPaid:             totals.AmountPaid.Amount(),
		Change:                 totals.Change.Amount(),
		PaymentMethod:          d.PaymentMethod,
		Notes:                  strings.TrimSpace(d.Notes),
		Items:                  make([]*TransactionItem, 0, len(d.Lines)),
	}

	for i, line := range d.Lines {
		txn.Items = append(txn.Items, &TransactionItem{
			ID:            uuid.New(),
			TransactionID: txn.ID,
			VariantID:     line.Variant.ID,
			ProductName:   line.Variant.ProductName,
			VariantName:   line.Variant.Name,
			SKU:           line.Variant.SKU,
			Quantity:      line.Quantity,
			UnitPrice:     valueobject.NewMoney(line.Variant.SellingPrice).Amount(),
			Discount:      valueobject.NewMoney(line.Discount).Amount(),
			Subtotal:      totals.ItemSubtotals[i].Amount(),
		})
	}

	txn.AddDomainEvent(NewTransactionCommittedEvent(txn))
	return txn, nil
}

// StockDeltas returns one signed delta per variant, summing repeated lines,
// ordered by variant id so concurrent commits lock rows in the same order.
func (t *Transaction) StockDeltas(actorID uuid.UUID) []inventory.StockDelta {
	qty := make(map[uuid.UUID]int64, len(t.Items))
	for _, item := range t.Items {
		qty[item.VariantID] += item.Quantity
	}

	sign := t.Type.StockSign()
	source := t.Type.MovementSource()
	txnID := t.ID
	deltas := make([]inventory.StockDelta, 0, len(qty))
	for variantID, q := range qty {
		deltas = append(deltas, inventory.StockDelta{
			VariantID:  variantID,
			Delta:      sign * q,
			Reason:     string(t.Type) + " " + t.TransactionNumber,
			SourceType: source,
			SourceID:   &txnID,
			ActorID:    actorID,
		})
	}
	sort.Slice(deltas, func(i, j int) bool {
		return deltas[i].VariantID.String() < deltas[j].VariantID.String()
	})
	return deltas
}

// ItemCount returns the total quantity across lines
func (t *Transaction) ItemCount() int64 {
	var n int64
	for _, item := range t.Items {
		n += item.Quantity
	}
	return n
}
