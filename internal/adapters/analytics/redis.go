// Package analytics implements the page-view counter on redis. Views are
// bucketed per event per UTC day; keys expire after the retention window so
// the keyspace stays bounded.
package analytics

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"eventpages/internal/domain"
)

// RetentionDays is how long per-day view counters are kept.
const RetentionDays = 90

const dayFormat = "2006-01-02"

type redisCounter struct {
	client *redis.Client
}

// NewRedisCounter returns a PageViewCounter backed by redis.
func NewRedisCounter(client *redis.Client) domain.PageViewCounter {
	return &redisCounter{client: client}
}

func viewKey(eventID, day string) string {
	return fmt.Sprintf("views:%s:%s", eventID, day)
}

func (c *redisCounter) Record(ctx context.Context, eventID string, at time.Time) error {
	key := viewKey(eventID, at.UTC().Format(dayFormat))
	pipe := c.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, RetentionDays*24*time.Hour)
	_, err := pipe.Exec(ctx)
	return err
}

func (c *redisCounter) Summary(ctx context.Context, eventID string, days int, now time.Time) (*domain.PageViewSummary, error) {
	if days <= 0 {
		days = 1
	}
	if days > RetentionDays {
		days = RetentionDays
	}

	dayKeys := make([]string, days)
	dayLabels := make([]string, days)
	end := now.UTC()
	for i := 0; i < days; i++ {
		day := end.AddDate(0, 0, -(days - 1 - i)).Format(dayFormat)
		dayLabels[i] = day
		dayKeys[i] = viewKey(eventID, day)
	}

	values, err := c.client.MGet(ctx, dayKeys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read view counters: %w", err)
	}

	summary := &domain.PageViewSummary{
		EventID: eventID,
		Days:    make([]domain.DayCount, days),
	}
	for i, v := range values {
		var count int64
		if s, ok := v.(string); ok {
			count, _ = strconv.ParseInt(s, 10, 64)
		}
		summary.Days[i] = domain.DayCount{Day: dayLabels[i], Count: count}
		summary.Total += count
	}
	return summary, nil
}
