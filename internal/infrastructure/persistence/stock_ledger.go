package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// applyDeltaSQL is the conditional write behind every stock change. The
// non-negative check and the increment are evaluated by the database in one
// statement, so two sales of the last unit cannot both succeed.
const applyDeltaSQL = `UPDATE product_variants
SET stock_quantity = stock_quantity + ?, updated_at = ?
WHERE id = ? AND owner_id = ? AND stock_quantity + ? >= 0
RETURNING stock_quantity`

// GormStockLedger implements inventory.StockLedger using GORM.
// Construct it on a transaction handle so the movement row commits with the
// stock change.
type GormStockLedger struct {
	db *gorm.DB
}

// NewGormStockLedger creates a new GormStockLedger
func NewGormStockLedger(db *gorm.DB) *GormStockLedger {
	return &GormStockLedger{db: db}
}

// ApplyDelta applies a signed change to a variant's stock and records the
// ledger row. Stock that would go negative fails with ErrInsufficientStock and
// leaves the variant untouched.
func (l *GormStockLedger) ApplyDelta(ctx context.Context, ownerID uuid.UUID, delta inventory.StockDelta) (*inventory.StockMovement, error) {
	if err := delta.Validate(); err != nil {
		return nil, err
	}
	db := l.db.WithContext(ctx)

	var balance int64
	result := db.Raw(applyDeltaSQL,
		delta.Delta, time.Now(), delta.VariantID, ownerID, delta.Delta,
	).Scan(&balance)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, l.rejection(db, ownerID, delta.VariantID)
	}

	movement := inventory.NewStockMovement(ownerID, delta, balance)
	if err := db.Create(models.StockMovementModelFromDomain(movement)).Error; err != nil {
		return nil, err
	}
	return movement, nil
}

// rejection tells a missing or foreign variant apart from a stock shortfall
func (l *GormStockLedger) rejection(db *gorm.DB, ownerID, variantID uuid.UUID) error {
	var count int64
	if err := db.Model(&models.ProductVariantModel{}).
		Where("id = ? AND owner_id = ?", variantID, ownerID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return shared.NewNotFoundError("Product variant")
	}
	return inventory.ErrInsufficientStock
}

var _ inventory.StockLedger = (*GormStockLedger)(nil)

// GormStockMovementRepository implements inventory.StockMovementRepository
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// FindByVariantForTenant returns a page of a variant's ledger, newest first
func (r *GormStockMovementRepository) FindByVariantForTenant(ctx context.Context, ownerID, variantID uuid.UUID, filter shared.Filter) ([]*inventory.StockMovement, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.StockMovementModel{}).
		Where("owner_id = ? AND variant_id = ?", ownerID, variantID).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.StockMovementModel
	if err := query.Scopes(paginate(filter)).Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	movements := make([]*inventory.StockMovement, len(rows))
	for i := range rows {
		movements[i] = rows[i].ToDomain()
	}
	return movements, total, nil
}

var _ inventory.StockMovementRepository = (*GormStockMovementRepository)(nil)
