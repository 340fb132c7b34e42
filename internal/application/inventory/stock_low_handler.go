package inventory

import (
	"context"
	"fmt"

	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// StockLowHandler turns StockLow events into alerts
type StockLowHandler struct {
	logger   *zap.Logger
	notifier StockAlertNotifier
}

// StockAlertNotifier sends stock alerts. Implementations can support
// different channels (log, webhook, email).
type StockAlertNotifier interface {
	SendAlert(ctx context.Context, alert StockAlert) error
}

// StockAlert represents a stock level alert
type StockAlert struct {
	OwnerID   string `json:"owner_id"`
	VariantID string `json:"variant_id"`
	SKU       string `json:"sku"`
	Stock     int64  `json:"stock"`
	Threshold int64  `json:"threshold"`
	AlertType string `json:"alert_type"` // "low_stock", "out_of_stock"
}

// NewStockLowHandler creates a new handler for StockLow events
func NewStockLowHandler(logger *zap.Logger) *StockLowHandler {
	return &StockLowHandler{
		logger: logger,
	}
}

// WithNotifier sets the notifier for sending alerts
func (h *StockLowHandler) WithNotifier(notifier StockAlertNotifier) *StockLowHandler {
	h.notifier = notifier
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *StockLowHandler) EventTypes() []string {
	return []string{inventory.EventTypeStockLow}
}

// Handle processes a StockLowEvent
func (h *StockLowHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	low, ok := event.(*inventory.StockLowEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", inventory.EventTypeStockLow),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			inventory.EventTypeStockLow, event.EventType())
	}

	alertType := "low_stock"
	if low.Stock == 0 {
		alertType = "out_of_stock"
	}

	alert := StockAlert{
		OwnerID:   event.OwnerID().String(),
		VariantID: low.VariantID.String(),
		SKU:       low.SKU,
		Stock:     low.Stock,
		Threshold: low.Threshold,
		AlertType: alertType,
	}

	h.logger.Warn("stock at or below threshold",
		zap.String("owner_id", alert.OwnerID),
		zap.String("variant_id", alert.VariantID),
		zap.String("sku", alert.SKU),
		zap.Int64("stock", alert.Stock),
		zap.Int64("threshold", alert.Threshold),
	)

	if h.notifier != nil {
		// Delivery failures are logged only; the event is not retried for them.
		if err := h.notifier.SendAlert(ctx, alert); err != nil {
			h.logger.Error("failed to send stock alert",
				zap.String("variant_id", alert.VariantID),
				zap.Error(err),
			)
		}
	}
	return nil
}

var _ shared.EventHandler = (*StockLowHandler)(nil)

// LoggingStockAlertNotifier logs alerts
type LoggingStockAlertNotifier struct {
	logger *zap.Logger
}

// NewLoggingStockAlertNotifier creates a new logging notifier
func NewLoggingStockAlertNotifier(logger *zap.Logger) *LoggingStockAlertNotifier {
	return &LoggingStockAlertNotifier{
		logger: logger,
	}
}

// SendAlert logs the stock alert
func (n *LoggingStockAlertNotifier) SendAlert(_ context.Context, alert StockAlert) error {
	n.logger.Warn("STOCK ALERT",
		zap.String("type", alert.AlertType),
		zap.String("sku", alert.SKU),
		zap.String("owner_id", alert.OwnerID),
		zap.Int64("stock", alert.Stock),
	)
	return nil
}

var _ StockAlertNotifier = (*LoggingStockAlertNotifier)(nil)

// StockAlertRecorder counts alerts by type
type StockAlertRecorder interface {
	RecordStockAlert(ctx context.Context, alertType string)
}

// MetricsStockAlertNotifier forwards alerts to a metrics recorder
type MetricsStockAlertNotifier struct {
	recorder StockAlertRecorder
}

// NewMetricsStockAlertNotifier creates a notifier backed by recorder
func NewMetricsStockAlertNotifier(recorder StockAlertRecorder) *MetricsStockAlertNotifier {
	return &MetricsStockAlertNotifier{recorder: recorder}
}

// SendAlert records the alert
func (n *MetricsStockAlertNotifier) SendAlert(ctx context.Context, alert StockAlert) error {
	n.recorder.RecordStockAlert(ctx, alert.AlertType)
	return nil
}

var _ StockAlertNotifier = (*MetricsStockAlertNotifier)(nil)
