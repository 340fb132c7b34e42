package cache

import (
	"github.com/redis/go-redis/v9"
	"github.com/retailpos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// NewIdempotencyStore returns a Redis store when a client is available and
// falls back to process memory otherwise
func NewIdempotencyStore(client redis.UniversalClient, logger *zap.Logger) shared.IdempotencyStore {
	if client != nil {
		logger.Info("Using Redis idempotency store")
		return NewRedisIdempotencyStore(client, "")
	}
	logger.Warn("Redis disabled, using in-memory idempotency store; keys are not shared between instances")
	return NewInMemoryIdempotencyStore(0)
}
