package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/sales"
	"github.com/retailpos/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTransactionRepository implements sales.TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// Create inserts the transaction row and its item rows. It does not open a
// transaction of its own; callers run it inside the commit's unit of work.
func (r *GormTransactionRepository) Create(ctx context.Context, txn *sales.Transaction) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(models.TransactionModelFromDomain(txn)).Error; err != nil {
		return translateError(err, sales.ErrDuplicateTransactionNumber)
	}
	if len(txn.Items) == 0 {
		return nil
	}

	items := make([]*models.TransactionItemModel, len(txn.Items))
	for i, item := range txn.Items {
		items[i] = models.TransactionItemModelFromDomain(item)
	}
	return translateError(db.Create(items).Error, nil)
}

// FindByIDForTenant loads a transaction with its items
func (r *GormTransactionRepository) FindByIDForTenant(ctx context.Context, ownerID, id uuid.UUID) (*sales.Transaction, error) {
	var model models.TransactionModel
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_name ASC, id ASC")
		}).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&model).Error; err != nil {
		return nil, translateError(err, nil)
	}
	return model.ToDomain(), nil
}

// ExistsForTenant reports whether the tenant owns a transaction with id
func (r *GormTransactionRepository) ExistsForTenant(ctx context.Context, ownerID, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.TransactionModel{}).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Count(&count).Error
	return count > 0, err
}

// FindAllForTenant lists transactions without items, newest first
func (r *GormTransactionRepository) FindAllForTenant(ctx context.Context, ownerID uuid.UUID, filter sales.TransactionFilter) ([]*sales.Transaction, int64, error) {
	query := r.filtered(ctx, ownerID, filter).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.TransactionModel
	if err := query.Scopes(paginate(filter.Filter)).Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	txns := make([]*sales.Transaction, len(rows))
	for i := range rows {
		txns[i] = rows[i].ToDomain()
	}
	return txns, total, nil
}

// itemTotalsSQL sums item quantities per transaction of one tenant
const itemTotalsSQL = "SELECT ti.transaction_id, SUM(ti.quantity) AS quantity FROM transaction_items ti " +
	"JOIN transactions t ON t.id = ti.transaction_id WHERE t.owner_id = ? GROUP BY ti.transaction_id"

type typeStatsRow struct {
	Type  sales.Type
	Count int64
	Total decimal.NullDecimal
	Items int64
}

// StatsForTenant aggregates transactions matching the filter by type
func (r *GormTransactionRepository) StatsForTenant(ctx context.Context, ownerID uuid.UUID, filter sales.TransactionFilter) (*sales.Stats, error) {
	var rows []typeStatsRow
	if err := r.filtered(ctx, ownerID, filter).
		Select("transactions.type AS type, COUNT(*) AS count, SUM(transactions.total) AS total, COALESCE(SUM(item_totals.quantity), 0) AS items").
		Joins("LEFT JOIN ("+itemTotalsSQL+") AS item_totals ON item_totals.transaction_id = transactions.id", ownerID).
		Group("transactions.type").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	byType := make(map[sales.Type]sales.TypeStats, len(rows))
	for _, row := range rows {
		total := decimal.Zero
		if row.Total.Valid {
			total = row.Total.Decimal.Round(2)
		}
		byType[row.Type] = sales.TypeStats{Count: row.Count, Total: total, Items: row.Items}
	}
	return sales.NewStats(byType), nil
}

// CountByStore counts transactions recorded at a store
func (r *GormTransactionRepository) CountByStore(ctx context.Context, ownerID, storeID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.TransactionModel{}).
		Where("owner_id = ? AND store_id = ?", ownerID, storeID).
		Count(&count).Error
	return count, err
}

func (r *GormTransactionRepository) filtered(ctx context.Context, ownerID uuid.UUID, filter sales.TransactionFilter) *gorm.DB {
	query := r.db.WithContext(ctx).
		Model(&models.TransactionModel{}).
		Where("transactions.owner_id = ?", ownerID)
	if filter.StoreID != nil {
		query = query.Where("transactions.store_id = ?", *filter.StoreID)
	}
	if filter.CashierID != nil {
		query = query.Where("transactions.cashier_id = ?", *filter.CashierID)
	}
	if filter.Type != nil {
		query = query.Where("transactions.type = ?", *filter.Type)
	}
	if filter.From != nil {
		query = query.Where("transactions.created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("transactions.created_at <= ?", *filter.To)
	}
	return query
}

var _ sales.TransactionRepository = (*GormTransactionRepository)(nil)
