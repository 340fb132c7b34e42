package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

const variantWithProductSelect = "product_variants.*, products.name AS product_name"

const variantProductJoin = "JOIN products ON products.id = product_variants.product_id AND products.owner_id = product_variants.owner_id"

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// Create inserts the product, its variants and an INITIAL ledger row for
// every variant created with stock.
func (r *GormProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(models.ProductModelFromDomain(product)).Error; err != nil {
			return err
		}
		if len(product.Variants) == 0 {
			return nil
		}

		variants := make([]*models.ProductVariantModel, len(product.Variants))
		var movements []*models.StockMovementModel
		for i, v := range product.Variants {
			variants[i] = models.ProductVariantModelFromDomain(v)
			if v.StockQuantity > 0 {
				delta := inventory.StockDelta{
					VariantID:  v.ID,
					Delta:      v.StockQuantity,
					Reason:     "Initial stock",
					SourceType: inventory.SourceInitial,
					SourceID:   &product.ID,
					ActorID:    product.OwnerID,
				}
				movements = append(movements, models.StockMovementModelFromDomain(
					inventory.NewStockMovement(product.OwnerID, delta, v.StockQuantity)))
			}
		}
		if err := tx.Create(variants).Error; err != nil {
			return err
		}
		if len(movements) > 0 {
			return tx.Create(movements).Error
		}
		return nil
	})
	return translateError(err, nil)
}

// FindVariantForTenant loads one variant with its product name
func (r *GormProductRepository) FindVariantForTenant(ctx context.Context, ownerID, variantID uuid.UUID) (*catalog.ProductVariant, error) {
	var row models.VariantWithProductRow
	if err := r.db.WithContext(ctx).
		Table("product_variants").
		Select(variantWithProductSelect).
		Joins(variantProductJoin).
		Where("product_variants.owner_id = ? AND product_variants.id = ?", ownerID, variantID).
		Take(&row).Error; err != nil {
		return nil, translateError(err, nil)
	}
	return row.ToDomain(), nil
}

// FindVariantsForTenant loads the tenant's variants among ids in one query
func (r *GormProductRepository) FindVariantsForTenant(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]*catalog.ProductVariant, error) {
	if len(ids) == 0 {
		return []*catalog.ProductVariant{}, nil
	}

	var rows []models.VariantWithProductRow
	if err := r.db.WithContext(ctx).
		Table("product_variants").
		Select(variantWithProductSelect).
		Joins(variantProductJoin).
		Where("product_variants.owner_id = ? AND product_variants.id IN ?", ownerID, ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	variants := make([]*catalog.ProductVariant, len(rows))
	for i := range rows {
		variants[i] = rows[i].ToDomain()
	}
	return variants, nil
}

// CountByStore counts products attached to a store
func (r *GormProductRepository) CountByStore(ctx context.Context, ownerID, storeID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Where("owner_id = ? AND store_id = ?", ownerID, storeID).
		Count(&count).Error
	return count, err
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
