package persistence

import (
	"context"

	appinv "github.com/retailpos/backend/internal/application/inventory"
	appsales "github.com/retailpos/backend/internal/application/sales"
	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/sales"
	"github.com/retailpos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// OutboxFactory builds an outbox saver bound to a database transaction
type OutboxFactory func(tx *gorm.DB) shared.OutboxEventSaver

// GormTransactionScope implements the sales and inventory TransactionScope
// interfaces using GORM transactions. Every repository handed to fn shares
// the same transaction; an error from fn rolls all of it back.
type GormTransactionScope struct {
	db     *gorm.DB
	outbox OutboxFactory
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB, outbox OutboxFactory) *GormTransactionScope {
	return &GormTransactionScope{db: db, outbox: outbox}
}

func (s *GormTransactionScope) run(ctx context.Context, fn func(repos *gormTransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx, outbox: s.outbox(tx)})
	})
}

// SalesScope returns the scope as seen by the transaction committer
func (s *GormTransactionScope) SalesScope() appsales.TransactionScope {
	return salesScope{s}
}

// InventoryScope returns the scope as seen by the stock service
func (s *GormTransactionScope) InventoryScope() appinv.TransactionScope {
	return inventoryScope{s}
}

type salesScope struct{ *GormTransactionScope }

// Execute runs fn within a database transaction
func (s salesScope) Execute(ctx context.Context, fn func(repos appsales.TransactionalRepositories) error) error {
	return s.run(ctx, func(repos *gormTransactionalRepositories) error { return fn(repos) })
}

type inventoryScope struct{ *GormTransactionScope }

// Execute runs fn within a database transaction
func (s inventoryScope) Execute(ctx context.Context, fn func(repos appinv.TransactionalRepositories) error) error {
	return s.run(ctx, func(repos *gormTransactionalRepositories) error { return fn(repos) })
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx     *gorm.DB
	outbox shared.OutboxEventSaver
}

// Transactions returns the transaction repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Transactions() sales.TransactionRepository {
	return NewGormTransactionRepository(r.tx)
}

// StockLedger returns the stock ledger scoped to the current transaction.
func (r *gormTransactionalRepositories) StockLedger() inventory.StockLedger {
	return NewGormStockLedger(r.tx)
}

// Outbox returns the event saver scoped to the current transaction.
func (r *gormTransactionalRepositories) Outbox() shared.OutboxEventSaver {
	return r.outbox
}

var (
	_ appsales.TransactionScope          = salesScope{}
	_ appinv.TransactionScope            = inventoryScope{}
	_ appsales.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
	_ appinv.TransactionalRepositories   = (*gormTransactionalRepositories)(nil)
)
