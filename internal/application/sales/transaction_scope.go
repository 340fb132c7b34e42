package sales

import (
	"context"

	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/sales"
	"github.com/retailpos/backend/internal/domain/shared"
)

// TransactionScope runs a commit as one atomic unit of work.
// If fn returns an error every write made through repos is rolled back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the repositories a commit writes through.
// All of them share the same underlying database transaction.
type TransactionalRepositories interface {
	// Transactions inserts the transaction and item rows
	Transactions() sales.TransactionRepository
	// StockLedger applies the conditional stock deltas
	StockLedger() inventory.StockLedger
	// Outbox stores the events raised by the commit
	Outbox() shared.OutboxEventSaver
}

// NoOpTransactionScope runs fn against plain repositories without a database
// transaction. Tests use it with in-memory fakes.
type NoOpTransactionScope struct {
	transactions sales.TransactionRepository
	ledger       inventory.StockLedger
	outbox       shared.OutboxEventSaver
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(
	transactions sales.TransactionRepository,
	ledger inventory.StockLedger,
	outbox shared.OutboxEventSaver,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		transactions: transactions,
		ledger:       ledger,
		outbox:       outbox,
	}
}

// Execute runs fn directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) Transactions() sales.TransactionRepository { return s.transactions }
func (s *NoOpTransactionScope) StockLedger() inventory.StockLedger        { return s.ledger }
func (s *NoOpTransactionScope) Outbox() shared.OutboxEventSaver           { return s.outbox }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
