package sales

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/sales"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	// DefaultCommitTimeout bounds the atomic unit once it has started
	DefaultCommitTimeout = 10 * time.Second
	// DefaultNumberAttempts is how many transaction numbers are tried
	// before a collision is reported to the caller
	DefaultNumberAttempts = 3
	// DefaultIdempotencyTTL is how long a caller-supplied key stays claimed
	DefaultIdempotencyTTL = 24 * time.Hour
)

// ErrIdempotencyKeyReused is returned when a request repeats a claimed key
var ErrIdempotencyKeyReused = shared.NewCategorizedError(
	shared.CategoryDuplicateIdentifier, "IDEMPOTENCY_KEY_REUSED", "Request with this idempotency key was already submitted",
)

// CommitObserver receives the outcome of every commit attempt
type CommitObserver interface {
	TransactionCommitted(ctx context.Context, txn *sales.Transaction, attempts int, elapsed time.Duration)
	TransactionRejected(ctx context.Context, state sales.CommitState, category shared.ErrorCategory, elapsed time.Duration)
}

type nopCommitObserver struct{}

func (nopCommitObserver) TransactionCommitted(context.Context, *sales.Transaction, int, time.Duration) {
}
func (nopCommitObserver) TransactionRejected(context.Context, sales.CommitState, shared.ErrorCategory, time.Duration) {
}

// CommitterConfig tunes the committer
type CommitterConfig struct {
	CommitTimeout  time.Duration
	NumberAttempts int
	IdempotencyTTL time.Duration
}

// DefaultCommitterConfig returns the default committer settings
func DefaultCommitterConfig() CommitterConfig {
	return CommitterConfig{
		CommitTimeout:  DefaultCommitTimeout,
		NumberAttempts: DefaultNumberAttempts,
		IdempotencyTTL: DefaultIdempotencyTTL,
	}
}

// TransactionCommitter turns a transaction request into a committed
// transaction: the transaction row, its items and every stock delta are
// written together or not at all.
type TransactionCommitter struct {
	gate        *identity.Gate
	validator   *ReferentialValidator
	scope       TransactionScope
	numbers     sales.NumberGenerator
	idempotency shared.IdempotencyStore
	observer    CommitObserver
	logger      *zap.Logger
	config      CommitterConfig
	now         func() time.Time
}

// NewTransactionCommitter creates a TransactionCommitter
func NewTransactionCommitter(
	gate *identity.Gate,
	validator *ReferentialValidator,
	scope TransactionScope,
	numbers sales.NumberGenerator,
	logger *zap.Logger,
	config CommitterConfig,
) *TransactionCommitter {
	if config.CommitTimeout <= 0 {
		config.CommitTimeout = DefaultCommitTimeout
	}
	if config.NumberAttempts <= 0 {
		config.NumberAttempts = DefaultNumberAttempts
	}
	if config.IdempotencyTTL <= 0 {
		config.IdempotencyTTL = DefaultIdempotencyTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransactionCommitter{
		gate:      gate,
		validator: validator,
		scope:     scope,
		numbers:   numbers,
		observer:  nopCommitObserver{},
		logger:    logger,
		config:    config,
		now:       time.Now,
	}
}

// SetIdempotencyStore enables Idempotency-Key handling
func (c *TransactionCommitter) SetIdempotencyStore(store shared.IdempotencyStore) {
	c.idempotency = store
}

// SetObserver sets the commit outcome observer
func (c *TransactionCommitter) SetObserver(observer CommitObserver) {
	if observer == nil {
		observer = nopCommitObserver{}
	}
	c.observer = observer
}

// Commit records a sale, return or refund for tc's tenant
func (c *TransactionCommitter) Commit(ctx context.Context, tc identity.TenantContext, req CreateTransactionRequest) (*TransactionResponse, error) {
	started := c.now()
	ctx, span := telemetry.StartServiceSpan(ctx, "transaction", "commit",
		telemetry.WithAttribute(telemetry.SpanAttrTenantID, tc.TenantID().String()),
		telemetry.WithAttribute(telemetry.SpanAttrStoreID, req.StoreID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrTransactionType, string(req.Type)),
		telemetry.WithAttribute(telemetry.SpanAttrItemCount, len(req.Items)),
	)
	defer span.End()

	flow := sales.NewCommitFlow()
	log := c.logger.With(
		zap.String("owner_id", tc.TenantID().String()),
		zap.String("user_id", tc.UserID.String()),
		zap.String("transaction_type", string(req.Type)),
	)

	reject := func(err error) (*TransactionResponse, error) {
		state := flow.State()
		flow.Reject()
		category := shared.CategoryOf(err)
		telemetry.RecordError(span, err)
		telemetry.SetAttributes(span, "commit_state", string(state), "error_category", string(category))
		c.observer.TransactionRejected(ctx, state, category, c.now().Sub(started))
		if category == shared.CategoryInternal {
			log.Error("Transaction rejected", zap.String("state", string(state)), zap.Error(err))
		} else {
			log.Info("Transaction rejected",
				zap.String("state", string(state)),
				zap.String("category", string(category)),
				zap.Error(err))
		}
		return nil, err
	}

	if err := c.gate.Authorize(tc, identity.OpTransactionCreate); err != nil {
		return reject(err)
	}

	release, err := c.claimIdempotencyKey(ctx, tc, req.IdempotencyKey)
	if err != nil {
		return reject(err)
	}

	txn, attempts, err := c.run(ctx, tc, req, flow)
	if err != nil {
		release()
		return reject(err)
	}

	if err := flow.Advance(sales.StateCommitted); err != nil {
		return reject(shared.NewInternalError("Commit state error", err))
	}
	elapsed := c.now().Sub(started)
	telemetry.SetAttributes(span,
		telemetry.SpanAttrTransactionID, txn.ID.String(),
		telemetry.SpanAttrTransactionNumber, txn.TransactionNumber,
		telemetry.SpanAttrAttempt, attempts,
	)
	telemetry.SetOK(span)
	c.observer.TransactionCommitted(ctx, txn, attempts, elapsed)
	log.Info("Transaction committed",
		zap.String("transaction_id", txn.ID.String()),
		zap.String("transaction_number", txn.TransactionNumber),
		zap.String("total", txn.Total.StringFixed(2)),
		zap.Int("attempts", attempts),
		zap.Duration("elapsed", elapsed),
	)

	resp := ToTransactionResponse(txn)
	return &resp, nil
}

// run drives Validating, Computing and Committing. The flow is left in
// Committing on success.
func (c *TransactionCommitter) run(ctx context.Context, tc identity.TenantContext, req CreateTransactionRequest, flow *sales.CommitFlow) (*sales.Transaction, int, error) {
	if err := sales.ValidateLineShapes(len(req.Items), func(i int) (int64, decimal.Decimal) {
		return req.Items[i].Quantity, req.Items[i].Discount
	}); err != nil {
		return nil, 0, err
	}
	req = req.mergeItems()

	draft := req.draft(tc.TenantID())
	if err := draft.Validate(); err != nil {
		return nil, 0, err
	}

	refs, err := c.validator.Validate(ctx, tc, References{
		StoreID:                req.StoreID,
		CashierID:              req.CashierID,
		VariantIDs:             req.variantIDs(),
		ReferenceTransactionID: req.ReferenceTransactionID,
	})
	if err != nil {
		return nil, 0, err
	}
	for i, item := range req.Items {
		draft.Lines[i].Variant = refs.Variants[item.VariantID]
	}

	if draft.Type == sales.TypeSale {
		if err := precheckStock(draft.Lines); err != nil {
			return nil, 0, err
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	if err := flow.Advance(sales.StateComputing); err != nil {
		return nil, 0, shared.NewInternalError("Commit state error", err)
	}

	for attempt := 1; ; attempt++ {
		txn, err := draft.Build(c.numbers.Next(c.now()))
		if err != nil {
			return nil, attempt, err
		}

		if err := flow.Advance(sales.StateCommitting); err != nil {
			return nil, attempt, shared.NewInternalError("Commit state error", err)
		}

		err = c.commit(ctx, tc, txn, refs.Variants)
		if err == nil {
			return txn, attempt, nil
		}
		if !isNumberCollision(err) || attempt >= c.config.NumberAttempts {
			return nil, attempt, err
		}

		telemetry.AddEvent(trace.SpanFromContext(ctx), "transaction_number_collision", telemetry.SpanAttrAttempt, attempt)
		c.logger.Warn("Transaction number collision, regenerating",
			zap.String("transaction_number", txn.TransactionNumber),
			zap.Int("attempt", attempt))
		if err := flow.Advance(sales.StateComputing); err != nil {
			return nil, attempt, shared.NewInternalError("Commit state error", err)
		}
	}
}

// commit writes txn, its stock deltas and its events in one unit of work.
// The unit runs detached from the caller's cancellation: once started it
// either completes or rolls back on its own timeout.
func (c *TransactionCommitter) commit(ctx context.Context, tc identity.TenantContext, txn *sales.Transaction, variants map[uuid.UUID]*catalog.ProductVariant) error {
	commitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.config.CommitTimeout)
	defer cancel()

	return c.scope.Execute(commitCtx, func(repos TransactionalRepositories) error {
		if err := repos.Transactions().Create(commitCtx, txn); err != nil {
			return err
		}

		events := txn.GetDomainEvents()
		for _, delta := range txn.StockDeltas(tc.UserID) {
			movement, err := repos.StockLedger().ApplyDelta(commitCtx, txn.OwnerID, delta)
			if err != nil {
				return err
			}
			if v, ok := variants[delta.VariantID]; ok && movement.CrossedBelow(v.LowStockThreshold) {
				events = append(events, inventory.NewStockLowEvent(movement, v.SKU, v.LowStockThreshold))
			}
		}

		return repos.Outbox().SaveEvents(commitCtx, events...)
	})
}

func (c *TransactionCommitter) claimIdempotencyKey(ctx context.Context, tc identity.TenantContext, key string) (func(), error) {
	if key == "" || c.idempotency == nil {
		return func() {}, nil
	}
	scoped := "txn:" + tc.TenantID().String() + ":" + key
	claimed, err := c.idempotency.Claim(ctx, scoped, c.config.IdempotencyTTL)
	if err != nil {
		return nil, shared.NewInternalError("Failed to claim idempotency key", err)
	}
	if !claimed {
		return nil, ErrIdempotencyKeyReused
	}
	return func() {
		if err := c.idempotency.Release(context.WithoutCancel(ctx), scoped); err != nil {
			c.logger.Warn("Failed to release idempotency key", zap.String("key", scoped), zap.Error(err))
		}
	}, nil
}

// precheckStock rejects a sale the catalog already shows cannot be filled.
// The conditional write in the ledger remains the authority.
func precheckStock(lines []sales.Line) error {
	for _, line := range lines {
		if !line.Variant.HasStockFor(line.Quantity) {
			return shared.NewCategorizedError(shared.CategoryInsufficientStock, inventory.ErrInsufficientStock.Code,
				"Insufficient stock for SKU "+line.Variant.SKU)
		}
	}
	return nil
}

// isNumberCollision reports a duplicate key raised while inserting the
// transaction row. The number is the only generated unique column.
func isNumberCollision(err error) bool {
	var de *shared.DomainError
	if !errors.As(err, &de) {
		return false
	}
	return de.Code == sales.ErrDuplicateTransactionNumber.Code
}
