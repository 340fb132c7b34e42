// Package event holds application services over the event outbox.
package event

import (
	"context"
	"fmt"

	"github.com/retailpos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// OutboxCounter counts outbox entries per delivery status
type OutboxCounter interface {
	CountByStatus(ctx context.Context) (map[shared.OutboxStatus]int64, error)
}

// ErrOutboxBacklog is reported when dead letters pile up past the threshold
var ErrOutboxBacklog = shared.NewCategorizedError(shared.CategoryInternal, "OUTBOX_BACKLOG", "Outbox has undeliverable events")

// OutboxStats is a snapshot of the outbox
type OutboxStats struct {
	Pending    int64 `json:"pending"`
	Processing int64 `json:"processing"`
	Sent       int64 `json:"sent"`
	Failed     int64 `json:"failed"`
	Dead       int64 `json:"dead"`
	Total      int64 `json:"total"`
}

// OutboxMonitor reports delivery health of the outbox
type OutboxMonitor struct {
	counter       OutboxCounter
	deadThreshold int64
	logger        *zap.Logger
}

// NewOutboxMonitor creates a monitor. A deadThreshold of zero never fails
// the check.
func NewOutboxMonitor(counter OutboxCounter, deadThreshold int64, logger *zap.Logger) *OutboxMonitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OutboxMonitor{
		counter:       counter,
		deadThreshold: deadThreshold,
		logger:        logger,
	}
}

// Stats returns entry counts by status
func (m *OutboxMonitor) Stats(ctx context.Context) (*OutboxStats, error) {
	counts, err := m.counter.CountByStatus(ctx)
	if err != nil {
		return nil, shared.NewInternalError("Failed to count outbox entries", err)
	}

	var total int64
	for _, count := range counts {
		total += count
	}
	return &OutboxStats{
		Pending:    counts[shared.OutboxStatusPending],
		Processing: counts[shared.OutboxStatusProcessing],
		Sent:       counts[shared.OutboxStatusSent],
		Failed:     counts[shared.OutboxStatusFailed],
		Dead:       counts[shared.OutboxStatusDead],
		Total:      total,
	}, nil
}

// Check is a health check. It fails when the outbox cannot be read or when
// the dead letter count reaches the threshold.
func (m *OutboxMonitor) Check(ctx context.Context) error {
	stats, err := m.Stats(ctx)
	if err != nil {
		return err
	}
	if m.deadThreshold > 0 && stats.Dead >= m.deadThreshold {
		m.logger.Warn("Outbox dead letters over threshold",
			zap.Int64("dead", stats.Dead),
			zap.Int64("threshold", m.deadThreshold),
		)
		return fmt.Errorf("%w: %d dead entries", ErrOutboxBacklog, stats.Dead)
	}
	return nil
}
