package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/kliniksehat/clinic-platform/pkg/logging"
)

// CachedBoard wraps a Board with a short-lived Redis cache so the
// waiting-room displays polling every few seconds share one computation.
type CachedBoard struct {
	board  *Board
	redis  *redis.Client
	ttl    time.Duration
	logger *logging.Logger
	tracer trace.Tracer
}

func NewCachedBoard(board *Board, client *redis.Client, ttl time.Duration, logger *logging.Logger) *CachedBoard {
	if client == nil {
		panic("queue: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &CachedBoard{
		board:  board,
		redis:  client,
		ttl:    ttl,
		logger: logger,
		tracer: otel.Tracer("klinik.internal.queue.cache"),
	}
}

// Compute returns the cached snapshot for date when one is fresh,
// recomputing and re-caching otherwise. Cache failures degrade to a
// direct computation rather than erroring the request.
func (c *CachedBoard) Compute(ctx context.Context, date string) (*Snapshot, error) {
	ctx, span := c.tracer.Start(ctx, "queue.board_cached")
	defer span.End()

	key := boardKey(date)
	data, err := c.redis.Get(ctx, key).Bytes()
	if err == nil {
		var snap Snapshot
		if err := json.Unmarshal(data, &snap); err == nil {
			return &snap, nil
		}
		c.logger.Warn("queue: discarding undecodable cached board", "key", key)
	} else if err != redis.Nil {
		span.RecordError(err)
		c.logger.Warn("queue: board cache read failed", "error", err)
	}

	snap, err := c.board.Compute(ctx, date)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(snap); err == nil {
		if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
			span.RecordError(err)
			c.logger.Warn("queue: board cache write failed", "error", err)
		}
	}
	return snap, nil
}

// Invalidate drops the cached snapshot for date, used after a booking or
// status change so the next poll sees the new queue immediately.
func (c *CachedBoard) Invalidate(ctx context.Context, date string) {
	if err := c.redis.Del(ctx, boardKey(date)).Err(); err != nil {
		c.logger.Warn("queue: board cache invalidation failed", "error", err)
	}
}

func boardKey(date string) string {
	return fmt.Sprintf("queue:board:%s", date)
}
