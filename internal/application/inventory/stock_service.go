package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// StockService handles manual stock corrections and ledger reads
type StockService struct {
	gate      *identity.Gate
	products  catalog.ProductRepository
	movements inventory.StockMovementRepository
	scope     TransactionScope
	logger    *zap.Logger
}

// NewStockService creates a new StockService
func NewStockService(
	gate *identity.Gate,
	products catalog.ProductRepository,
	movements inventory.StockMovementRepository,
	scope TransactionScope,
	logger *zap.Logger,
) *StockService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockService{
		gate:      gate,
		products:  products,
		movements: movements,
		scope:     scope,
		logger:    logger,
	}
}

// AdjustStock applies a signed correction to a variant's stock.
// The reason is required and recorded on the ledger row.
func (s *StockService) AdjustStock(ctx context.Context, tc identity.TenantContext, variantID uuid.UUID, req AdjustStockRequest) (_ *StockMovementResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "stock", "adjust",
		telemetry.WithAttribute(telemetry.SpanAttrTenantID, tc.TenantID().String()),
		telemetry.WithAttribute(telemetry.SpanAttrVariantID, variantID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrDelta, req.Delta),
	)
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	if err := s.gate.Authorize(tc, identity.OpStockAdjust); err != nil {
		return nil, err
	}

	delta := inventory.StockDelta{
		VariantID:  variantID,
		Delta:      req.Delta,
		Reason:     req.Reason,
		SourceType: inventory.SourceAdjustment,
		ActorID:    tc.UserID,
	}
	if err := delta.Validate(); err != nil {
		return nil, err
	}

	variant, err := s.products.FindVariantForTenant(ctx, tc.TenantID(), variantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Product variant")
		}
		return nil, err
	}

	var movement *inventory.StockMovement
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		m, err := repos.StockLedger().ApplyDelta(ctx, tc.TenantID(), delta)
		if err != nil {
			return err
		}
		movement = m

		events := []shared.DomainEvent{inventory.NewStockAdjustedEvent(m)}
		if m.CrossedBelow(variant.LowStockThreshold) {
			events = append(events, inventory.NewStockLowEvent(m, variant.SKU, variant.LowStockThreshold))
		}
		return repos.Outbox().SaveEvents(ctx, events...)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Stock adjusted",
		zap.String("owner_id", tc.TenantID().String()),
		zap.String("variant_id", variantID.String()),
		zap.Int64("delta", movement.Delta),
		zap.Int64("balance_after", movement.BalanceAfter),
		zap.String("actor_id", tc.UserID.String()),
	)

	resp := ToStockMovementResponse(movement)
	return &resp, nil
}

// ListMovements returns a page of a variant's ledger, newest first
func (s *StockService) ListMovements(ctx context.Context, tc identity.TenantContext, variantID uuid.UUID, filter shared.Filter) (shared.Paginated[StockMovementResponse], error) {
	if err := s.gate.Authorize(tc, identity.OpStockHistory); err != nil {
		return shared.Paginated[StockMovementResponse]{}, err
	}
	filter = filter.Normalize()

	if _, err := s.products.FindVariantForTenant(ctx, tc.TenantID(), variantID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.Paginated[StockMovementResponse]{}, shared.NewNotFoundError("Product variant")
		}
		return shared.Paginated[StockMovementResponse]{}, err
	}

	movements, total, err := s.movements.FindByVariantForTenant(ctx, tc.TenantID(), variantID, filter)
	if err != nil {
		return shared.Paginated[StockMovementResponse]{}, err
	}
	return shared.NewPaginated(ToStockMovementResponses(movements), total, filter.Page, filter.PageSize), nil
}
