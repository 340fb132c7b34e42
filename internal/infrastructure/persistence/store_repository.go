package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormStoreRepository implements catalog.StoreRepository using GORM
type GormStoreRepository struct {
	db *gorm.DB
}

// NewGormStoreRepository creates a new GormStoreRepository
func NewGormStoreRepository(db *gorm.DB) *GormStoreRepository {
	return &GormStoreRepository{db: db}
}

// Create inserts a store
func (r *GormStoreRepository) Create(ctx context.Context, store *catalog.Store) error {
	return translateError(r.db.WithContext(ctx).Create(models.StoreModelFromDomain(store)).Error, nil)
}

// FindByIDForTenant finds a store owned by ownerID
func (r *GormStoreRepository) FindByIDForTenant(ctx context.Context, ownerID, id uuid.UUID) (*catalog.Store, error) {
	var model models.StoreModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&model).Error; err != nil {
		return nil, translateError(err, nil)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists the tenant's stores by name
func (r *GormStoreRepository) FindAllForTenant(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]*catalog.Store, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.StoreModel{}).Where("owner_id = ?", ownerID).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.StoreModel
	if err := query.Scopes(paginate(filter)).Order("name ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	stores := make([]*catalog.Store, len(rows))
	for i := range rows {
		stores[i] = rows[i].ToDomain()
	}
	return stores, total, nil
}

// DeleteForTenant removes a store owned by ownerID. A store still
// referenced by other rows is reported as in use.
func (r *GormStoreRepository) DeleteForTenant(ctx context.Context, ownerID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Delete(&models.StoreModel{})
	if result.Error != nil {
		if errorIsForeignKey(result.Error) {
			return catalog.ErrStoreInUse
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ catalog.StoreRepository = (*GormStoreRepository)(nil)
