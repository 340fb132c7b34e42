package inventory

import (
	"context"

	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/shared"
)

// TransactionScope runs a stock adjustment as one unit of work
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories share the same underlying database transaction
type TransactionalRepositories interface {
	StockLedger() inventory.StockLedger
	Outbox() shared.OutboxEventSaver
}

// NoOpTransactionScope runs fn without a database transaction
type NoOpTransactionScope struct {
	ledger inventory.StockLedger
	outbox shared.OutboxEventSaver
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(ledger inventory.StockLedger, outbox shared.OutboxEventSaver) *NoOpTransactionScope {
	return &NoOpTransactionScope{ledger: ledger, outbox: outbox}
}

// Execute runs fn directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// StockLedger returns the ledger
func (s *NoOpTransactionScope) StockLedger() inventory.StockLedger {
	return s.ledger
}

// Outbox returns the event saver
func (s *NoOpTransactionScope) Outbox() shared.OutboxEventSaver {
	return s.outbox
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
