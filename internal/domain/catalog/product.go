package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
)

// Product is a sellable article. Stock and prices live on its variants.
type Product struct {
	shared.OwnedEntity
	CategoryID  uuid.UUID
	StoreID     uuid.UUID
	Name        string
	Description string
	Variants    []*ProductVariant
}

// NewProduct creates a product. The caller has already checked that category
// and store belong to ownerID.
func NewProduct(ownerID, categoryID, storeID uuid.UUID, name, description string) (*Product, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Product must belong to a tenant")
	}
	if categoryID == uuid.Nil || storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product requires a category and a store")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot exceed 200 characters")
	}
	return &Product{
		OwnedEntity: shared.NewOwnedEntity(ownerID),
		CategoryID:  categoryID,
		StoreID:     storeID,
		Name:        name,
		Description: strings.TrimSpace(description),
	}, nil
}

// AddVariant attaches a new variant. SKU and barcode must be unique within
// the product; tenant-wide uniqueness is enforced by the database.
func (p *Product) AddVariant(spec VariantSpec) (*ProductVariant, error) {
	v, err := newProductVariant(p, spec)
	if err != nil {
		return nil, err
	}
	for _, existing := range p.Variants {
		if existing.SKU == v.SKU {
			return nil, shared.NewCategorizedError(shared.CategoryDuplicateIdentifier, "DUPLICATE_SKU", "SKU "+v.SKU+" is already used by this product")
		}
		if v.Barcode != nil && existing.Barcode != nil && *existing.Barcode == *v.Barcode {
			return nil, shared.NewCategorizedError(shared.CategoryDuplicateIdentifier, "DUPLICATE_BARCODE", "Barcode "+*v.Barcode+" is already used by this product")
		}
	}
	p.Variants = append(p.Variants, v)
	return v, nil
}
