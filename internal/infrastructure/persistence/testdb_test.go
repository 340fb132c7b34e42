package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an in-memory SQLite database with every table migrated.
// A single connection keeps all statements on the same in-memory database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), GormConfig(logger.Default.LogMode(logger.Silent)))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.UserModel{},
		&models.StoreModel{},
		&models.CategoryModel{},
		&models.ProductModel{},
		&models.ProductVariantModel{},
		&models.StockMovementModel{},
		&models.TransactionModel{},
		&models.TransactionItemModel{},
		&models.OutboxEntryModel{},
	))
	return db
}

type testTenant struct {
	owner    *identity.User
	store    *catalog.Store
	category *catalog.Category
	product  *catalog.Product
	cola     *catalog.ProductVariant
}

// seedTenant creates an owner with one store, one category and a product
// with a single variant holding stock units.
func seedTenant(t *testing.T, db *gorm.DB, name string, stock int64) *testTenant {
	t.Helper()
	ctx := context.Background()

	owner, err := identity.NewOwner(name+"@example.com", name)
	require.NoError(t, err)
	require.NoError(t, NewGormUserRepository(db).Create(ctx, owner))

	store, err := catalog.NewStore(owner.ID, name+" Main", "1 High St", "555")
	require.NoError(t, err)
	require.NoError(t, NewGormStoreRepository(db).Create(ctx, store))

	category, err := catalog.NewCategory(owner.ID, "Drinks", "")
	require.NoError(t, err)
	require.NoError(t, NewGormCategoryRepository(db).Create(ctx, category))

	product, err := catalog.NewProduct(owner.ID, category.ID, store.ID, "Cola", "")
	require.NoError(t, err)
	cola, err := product.AddVariant(catalog.VariantSpec{
		Name:              "330ml",
		SKU:               "COLA-330",
		SellingPrice:      decimal.RequireFromString("1.50"),
		CostPrice:         decimal.RequireFromString("0.80"),
		InitialStock:      stock,
		LowStockThreshold: 2,
	})
	require.NoError(t, err)
	require.NoError(t, NewGormProductRepository(db).Create(ctx, product))

	return &testTenant{owner: owner, store: store, category: category, product: product, cola: cola}
}

func stockOf(t *testing.T, db *gorm.DB, variantID uuid.UUID) int64 {
	t.Helper()
	var v models.ProductVariantModel
	require.NoError(t, db.Where("id = ?", variantID).First(&v).Error)
	return v.StockQuantity
}

func countRows(t *testing.T, db *gorm.DB, model any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}
