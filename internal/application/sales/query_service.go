package sales

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/sales"
	"github.com/retailpos/backend/internal/domain/shared"
)

// TransactionQueryService serves transaction reads for owners and managers
type TransactionQueryService struct {
	gate *identity.Gate
	repo sales.TransactionRepository
}

// NewTransactionQueryService creates a TransactionQueryService
func NewTransactionQueryService(gate *identity.Gate, repo sales.TransactionRepository) *TransactionQueryService {
	return &TransactionQueryService{gate: gate, repo: repo}
}

// GetByID returns one transaction with its items
func (s *TransactionQueryService) GetByID(ctx context.Context, tc identity.TenantContext, id uuid.UUID) (*TransactionResponse, error) {
	if err := s.gate.Authorize(tc, identity.OpTransactionRead); err != nil {
		return nil, err
	}
	txn, err := s.repo.FindByIDForTenant(ctx, tc.TenantID(), id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Transaction")
		}
		return nil, err
	}
	resp := ToTransactionResponse(txn)
	return &resp, nil
}

// List returns a page of the tenant's transactions, newest first
func (s *TransactionQueryService) List(ctx context.Context, tc identity.TenantContext, query ListTransactionsQuery) (shared.Paginated[TransactionResponse], error) {
	if err := s.gate.Authorize(tc, identity.OpTransactionRead); err != nil {
		return shared.Paginated[TransactionResponse]{}, err
	}
	filter := query.filter()
	if err := validateRange(filter); err != nil {
		return shared.Paginated[TransactionResponse]{}, err
	}
	txns, total, err := s.repo.FindAllForTenant(ctx, tc.TenantID(), filter)
	if err != nil {
		return shared.Paginated[TransactionResponse]{}, err
	}
	return shared.NewPaginated(ToTransactionResponses(txns), total, filter.Page, filter.PageSize), nil
}

// Stats aggregates the tenant's transactions matching query
func (s *TransactionQueryService) Stats(ctx context.Context, tc identity.TenantContext, query ListTransactionsQuery) (*sales.Stats, error) {
	if err := s.gate.Authorize(tc, identity.OpTransactionStats); err != nil {
		return nil, err
	}
	filter := query.filter()
	if err := validateRange(filter); err != nil {
		return nil, err
	}
	return s.repo.StatsForTenant(ctx, tc.TenantID(), filter)
}

func validateRange(f sales.TransactionFilter) error {
	if f.Type != nil && !f.Type.IsValid() {
		return shared.NewDomainError("INVALID_TYPE", "Transaction type must be SALE, RETURN or REFUND")
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return shared.NewDomainError("INVALID_RANGE", "End of range is before its start")
	}
	return nil
}
