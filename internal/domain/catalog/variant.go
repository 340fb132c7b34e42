package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductVariant is the stock-keeping unit that sales reference.
//
// OwnerID is a copy of the parent product's owner, written together with the
// variant and pinned to it by a composite foreign key. StockQuantity is never
// negative and only changes through the stock ledger.
type ProductVariant struct {
	shared.BaseEntity
	ProductID         uuid.UUID
	OwnerID           uuid.UUID
	Name              string
	SKU               string
	Barcode           *string
	QRToken           string
	SellingPrice      decimal.Decimal
	CostPrice         decimal.Decimal
	StockQuantity     int64
	LowStockThreshold int64

	// ProductName is loaded for display and line-item snapshots; not persisted
	ProductName string
}

// VariantSpec describes a variant to create
type VariantSpec struct {
	Name              string
	SKU               string
	Barcode           string
	SellingPrice      decimal.Decimal
	CostPrice         decimal.Decimal
	InitialStock      int64
	LowStockThreshold int64
}

func newProductVariant(p *Product, spec VariantSpec) (*ProductVariant, error) {
	sku := strings.ToUpper(strings.TrimSpace(spec.SKU))
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if len(sku) > 64 {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 64 characters")
	}
	name := strings.TrimSpace(spec.Name)
	if name == "" {
		name = "Default"
	}
	if spec.SellingPrice.IsNegative() || spec.CostPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Prices cannot be negative")
	}
	if spec.InitialStock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Initial stock cannot be negative")
	}
	if spec.LowStockThreshold < 0 {
		return nil, shared.NewDomainError("INVALID_THRESHOLD", "Low stock threshold cannot be negative")
	}

	var barcode *string
	if b := strings.TrimSpace(spec.Barcode); b != "" {
		barcode = &b
	}

	return &ProductVariant{
		BaseEntity:        shared.NewBaseEntity(),
		ProductID:         p.ID,
		OwnerID:           p.OwnerID,
		Name:              name,
		SKU:               sku,
		Barcode:           barcode,
		QRToken:           strings.ReplaceAll(uuid.NewString(), "-", ""),
		SellingPrice:      spec.SellingPrice.Round(2),
		CostPrice:         spec.CostPrice.Round(2),
		StockQuantity:     spec.InitialStock,
		LowStockThreshold: spec.LowStockThreshold,
		ProductName:       p.Name,
	}, nil
}

// BelongsTo reports whether the variant is owned by the tenant
func (v *ProductVariant) BelongsTo(ownerID uuid.UUID) bool {
	return ownerID != uuid.Nil && v.OwnerID == ownerID
}

// HasStockFor reports whether current stock covers quantity. This is an
// advisory read; the stock ledger's conditional write is authoritative.
func (v *ProductVariant) HasStockFor(quantity int64) bool {
	return v.StockQuantity >= quantity
}

// IsLowStock reports whether a stock level is at or below the threshold
func (v *ProductVariant) IsLowStock(stock int64) bool {
	return v.LowStockThreshold > 0 && stock <= v.LowStockThreshold
}

// DisplayName combines product and variant names
func (v *ProductVariant) DisplayName() string {
	if v.ProductName == "" {
		return v.Name
	}
	if v.Name == "" || v.Name == "Default" {
		return v.ProductName
	}
	return v.ProductName + " - " + v.Name
}
