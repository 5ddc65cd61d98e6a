package service

import (
	"context"
	"fmt"
	"time"

	"leadgen-suite-be/internal/pkg/logger"
	"leadgen-suite-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SearchQuota caps how many searches a user may run per day. The counter
// lives in Redis so it survives restarts and is shared across instances.
// When Redis is down we let the search through: losing quota accounting
// is better than blocking everyone.
type SearchQuota struct {
	client   *redis.Client
	dailyMax int
	logger   logger.ILogger
}

func NewSearchQuota(client *redis.Client, dailyMax int, log logger.ILogger) *SearchQuota {
	return &SearchQuota{
		client:   client,
		dailyMax: dailyMax,
		logger:   log,
	}
}

func (q *SearchQuota) Consume(ctx context.Context, userID uuid.UUID) error {
	if q.client == nil || q.dailyMax <= 0 {
		return nil
	}

	key := fmt.Sprintf("quota:search:%s:%s", userID.String(), time.Now().Format("2006-01-02"))

	count, err := q.client.Incr(ctx, key).Result()
	if err != nil {
		q.logger.Warn("SearchQuota", "Redis unavailable, skipping quota check", map[string]interface{}{"error": err.Error()})
		return nil
	}
	if count == 1 {
		// First search of the day sets the window.
		q.client.Expire(ctx, key, 24*time.Hour)
	}

	if count > int64(q.dailyMax) {
		return serverutils.NewAppError(
			serverutils.CodeQuotaExceeded,
			fiber.StatusTooManyRequests,
			fmt.Sprintf("daily search limit of %d reached", q.dailyMax),
			nil,
		)
	}
	return nil
}

// Remaining reports how many searches the user has left today. Redis
// failures degrade to the full allowance.
func (q *SearchQuota) Remaining(ctx context.Context, userID uuid.UUID) int {
	if q.client == nil || q.dailyMax <= 0 {
		return -1
	}

	key := fmt.Sprintf("quota:search:%s:%s", userID.String(), time.Now().Format("2006-01-02"))
	count, err := q.client.Get(ctx, key).Int64()
	if err != nil {
		return q.dailyMax
	}

	remaining := q.dailyMax - int(count)
	if remaining < 0 {
		return 0
	}
	return remaining
}
