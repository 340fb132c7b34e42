package models

import (
	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
)

// TransactionModel is the persistence model for the Transaction aggregate.
// Rows are written once and never updated.
type TransactionModel struct {
	OwnedModel
	TransactionNumber      string                 `gorm:"type:varchar(32);not null;uniqueIndex"`
	Type                   sales.Type             `gorm:"type:varchar(20);not null;index"`
	StoreID                uuid.UUID              `gorm:"type:uuid;not null;index"`
	CashierID              uuid.UUID              `gorm:"type:uuid;not null;index"`
	ReferenceTransactionID *uuid.UUID             `gorm:"type:uuid"`
	Subtotal               decimal.Decimal        `gorm:"type:decimal(14,2);not null"`
	Tax                    decimal.Decimal        `gorm:"type:decimal(14,2);not null"`
	Discount               decimal.Decimal        `gorm:"type:decimal(14,2);not null"`
	Total                  decimal.Decimal        `gorm:"type:decimal(14,2);not null"`
	AmountPaid             decimal.Decimal        `gorm:"type:decimal(14,2);not null"`
	Change                 decimal.Decimal        `gorm:"column:change_due;type:decimal(14,2);not null"`
	PaymentMethod          sales.PaymentMethod    `gorm:"type:varchar(20);not null"`
	Notes                  string                 `gorm:"type:text"`
	Items                  []TransactionItemModel `gorm:"foreignKey:TransactionID"`
}

// TableName returns the table name for GORM
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToDomain converts the persistence model to a domain Transaction
func (m *TransactionModel) ToDomain() *sales.Transaction {
	t := &sales.Transaction{
		OwnedEntity:            m.ToOwnedEntity(),
		TransactionNumber:      m.TransactionNumber,
		Type:                   m.Type,
		StoreID:                m.StoreID,
		CashierID:              m.CashierID,
		ReferenceTransactionID: m.ReferenceTransactionID,
		Subtotal:               m.Subtotal,
		Tax:                    m.Tax,
		Discount:               m.Discount,
		Total:                  m.Total,
		AmountPaid:             m.AmountPaid,
		Change:                 m.Change,
		PaymentMethod:          m.PaymentMethod,
		Notes:                  m.Notes,
	}
	if len(m.Items) > 0 {
		t.Items = make([]*sales.TransactionItem, len(m.Items))
		for i := range m.Items {
			t.Items[i] = m.Items[i].ToDomain()
		}
	}
	return t
}

// TransactionModelFromDomain creates a persistence model from a domain
// Transaction. Items are converted separately.
func TransactionModelFromDomain(t *sales.Transaction) *TransactionModel {
	m := &TransactionModel{
		TransactionNumber:      t.TransactionNumber,
		Type:                   t.Type,
		StoreID:                t.StoreID,
		CashierID:              t.CashierID,
		ReferenceTransactionID: t.ReferenceTransactionID,
		Subtotal:               t.Subtotal,
		Tax:                    t.Tax,
		Discount:               t.Discount,
		Total:                  t.Total,
		AmountPaid:             t.AmountPaid,
		Change:                 t.Change,
		PaymentMethod:          t.PaymentMethod,
		Notes:                  t.Notes,
	}
	m.FromDomainOwnedEntity(t.OwnedEntity)
	return m
}

// TransactionItemModel is one line of a transaction
type TransactionItemModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TransactionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	VariantID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName   string          `gorm:"type:varchar(200);not null"`
	VariantName   string          `gorm:"type:varchar(100);not null"`
	SKU           string          `gorm:"column:sku;type:varchar(64);not null"`
	Quantity      int64           `gorm:"not null"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Discount      decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(14,2);not null"`
}

// TableName returns the table name for GORM
func (TransactionItemModel) TableName() string {
	return "transaction_items"
}

// ToDomain converts the persistence model to a domain TransactionItem
func (m *TransactionItemModel) ToDomain() *sales.TransactionItem {
	return &sales.TransactionItem{
		ID:            m.ID,
		TransactionID: m.TransactionID,
		VariantID:     m.VariantID,
		ProductName:   m.ProductName,
		VariantName:   m.VariantName,
		SKU:           m.SKU,
		Quantity:      m.Quantity,
		UnitPrice:     m.UnitPrice,
		Discount:      m.Discount,
		Subtotal:      m.Subtotal,
	}
}

// TransactionItemModelFromDomain creates a persistence model from a domain TransactionItem
func TransactionItemModelFromDomain(i *sales.TransactionItem) *TransactionItemModel {
	return &TransactionItemModel{
		ID:            i.ID,
		TransactionID: i.TransactionID,
		VariantID:     i.VariantID,
		ProductName:   i.ProductName,
		VariantName:   i.VariantName,
		SKU:           i.SKU,
		Quantity:      i.Quantity,
		UnitPrice:     i.UnitPrice,
		Discount:      i.Discount,
		Subtotal:      i.Subtotal,
	}
}
