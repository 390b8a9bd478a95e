// Package redis caches completed ranking results, keyed by a digest of the
// normalized request slots, so identical quote requests skip the scoring
// pass.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/oneq/backend/internal/metrics"
	"github.com/oneq/backend/internal/schema"
	"github.com/oneq/backend/internal/score"
	"github.com/oneq/backend/pkg/logger"
)

type Client struct {
	client *redis.Client
	ttl    time.Duration
}

func NewClient(host string, port int, password string, db int, ttl time.Duration) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis client initialized", zap.String("addr", fmt.Sprintf("%s:%d", host, port)))

	return &Client{client: client, ttl: ttl}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// RankingKey digests the slots into a stable cache key. Equal requirement
// sets always collide regardless of fill order.
func RankingKey(slots schema.Slots) string {
	return slots.Digest()
}

func (c *Client) SetRanking(ctx context.Context, key string, res score.Result) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to marshal ranking: %w", err)
	}

	if err := c.client.Set(ctx, "ranking:"+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set ranking cache: %w", err)
	}

	logger.Debug("Ranking cached", zap.String("key", key), zap.Duration("ttl", c.ttl))
	return nil
}

func (c *Client) GetRanking(ctx context.Context, key string) (score.Result, bool, error) {
	data, err := c.client.Get(ctx, "ranking:"+key).Bytes()
	if err == redis.Nil {
		metrics.CacheMisses.WithLabelValues("ranking").Inc()
		return score.Result{}, false, nil
	}
	if err != nil {
		return score.Result{}, false, fmt.Errorf("failed to get ranking cache: %w", err)
	}

	var res score.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return score.Result{}, false, fmt.Errorf("failed to unmarshal ranking: %w", err)
	}

	metrics.CacheHits.WithLabelValues("ranking").Inc()
	logger.Debug("Ranking cache hit", zap.String("key", key))
	return res, true, nil
}

// InvalidateRankings drops every cached ranking, e.g. after a vendor record
// changes.
func (c *Client) InvalidateRankings(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, "ranking:*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete ranking key: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan ranking keys: %w", err)
	}
	return nil
}
