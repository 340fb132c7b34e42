package telemetry

import (
	"context"
	"time"

	"github.com/retailpos/backend/internal/domain/shared"
	domainsales "github.com/retailpos/backend/internal/domain/sales"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics counts transaction commits and stock alerts. It satisfies
// the committer's CommitObserver.
type BusinessMetrics struct {
	logger *zap.Logger

	committedTotal  *Counter
	rejectedTotal   *Counter
	itemsTotal      *Counter
	amountCents     *Counter
	commitDuration  *Histogram
	commitAttempts  *Histogram
	stockAlertTotal *Counter
}

// NewBusinessMetrics creates the business instruments on meter.
func NewBusinessMetrics(meter metric.Meter, logger *zap.Logger) (*BusinessMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	bm := &BusinessMetrics{logger: logger}

	in := NewInstruments(meter)
	bm.committedTotal = in.Counter("pos_transaction_committed_total",
		"Total number of committed transactions", "{transactions}")
	bm.rejectedTotal = in.Counter("pos_transaction_rejected_total",
		"Total number of rejected transaction requests", "{transactions}")
	bm.itemsTotal = in.Counter("pos_transaction_items_total",
		"Total number of units moved by committed transactions", "{units}")
	bm.amountCents = in.Counter("pos_transaction_amount_total",
		"Total committed transaction amount in cents", "{cents}")
	bm.commitDuration = in.Histogram(HistogramOpts{
		Name:        "pos_transaction_commit_duration_seconds",
		Description: "Time from request to commit outcome",
		Unit:        "s",
		Boundaries:  CommitDurationBuckets,
	})
	bm.commitAttempts = in.Histogram(HistogramOpts{
		Name:        "pos_transaction_commit_attempts",
		Description: "Commit attempts needed per committed transaction",
		Unit:        "{attempts}",
		Boundaries:  []float64{1, 2, 3},
	})
	bm.stockAlertTotal = in.Counter("pos_stock_alert_total",
		"Total number of low stock alerts", "{alerts}")
	if err := in.Err(); err != nil {
		return nil, err
	}
	return bm, nil
}

// TransactionCommitted records a committed transaction.
func (bm *BusinessMetrics) TransactionCommitted(ctx context.Context, txn *domainsales.Transaction, attempts int, elapsed time.Duration) {
	typ := AttrTransactionType.String(string(txn.Type))
	bm.committedTotal.Inc(ctx, typ, AttrPaymentMethod.String(string(txn.PaymentMethod)))
	bm.commitDuration.RecordDuration(ctx, elapsed, typ, AttrCommitState.String(string(domainsales.StateCommitted)))
	bm.commitAttempts.Record(ctx, float64(attempts), typ)

	var units int64
	for _, item := range txn.Items {
		units += item.Quantity
	}
	bm.itemsTotal.Add(ctx, units, typ)
	bm.amountCents.Add(ctx, txn.Total.Shift(2).Round(0).IntPart(), typ)
}

// TransactionRejected records a rejected request and the stage that rejected it.
func (bm *BusinessMetrics) TransactionRejected(ctx context.Context, state domainsales.CommitState, category shared.ErrorCategory, elapsed time.Duration) {
	attrs := []attribute.KeyValue{
		AttrCommitState.String(string(state)),
		AttrErrorCategory.String(string(category)),
	}
	bm.rejectedTotal.Inc(ctx, attrs...)
	bm.commitDuration.RecordDuration(ctx, elapsed, AttrCommitState.String(string(domainsales.StateRejected)))
}

// RecordStockAlert counts a low stock or out of stock alert.
func (bm *BusinessMetrics) RecordStockAlert(ctx context.Context, alertType string) {
	bm.stockAlertTotal.Inc(ctx, AttrAlertType.String(alertType))
}

// ErrMeterNil is returned when a constructor is given a nil meter.
var ErrMeterNil = &MetricsError{Op: "telemetry", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
