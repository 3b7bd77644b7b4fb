package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/andresuchdata/doi-dashboard/backend-go/internal/config"
	"github.com/andresuchdata/doi-dashboard/backend-go/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	explorerKeyPrefix = "doi:explorer"
	scanBatchSize     = 100
)

// ExplorerKey identifies one explorer render: the dataset it was computed
// from, the filter selection and the calendar date used for expiry.
type ExplorerKey struct {
	Fingerprint string
	Filter      domain.ExplorerFilter
	AsOf        string
}

// ExplorerCache stores rendered explorer dashboards. Overview renders carry
// randomly sampled insights and are never cached.
type ExplorerCache interface {
	Get(ctx context.Context, key ExplorerKey) (*domain.ExplorerDashboard, bool, error)
	Set(ctx context.Context, key ExplorerKey, dashboard *domain.ExplorerDashboard) error
	InvalidateAll(ctx context.Context) error
	Close() error
}

type redisExplorerCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopExplorerCache struct{}

// NewExplorerCache returns a redis-backed cache, or a no-op cache when
// caching is disabled.
func NewExplorerCache(ctx context.Context, cfg config.CacheConfig) (ExplorerCache, error) {
	if !cfg.Enabled {
		return &noopExplorerCache{}, nil
	}

	client, ttl, err := newRedisClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &redisExplorerCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopExplorerCache() ExplorerCache {
	return &noopExplorerCache{}
}

func (c *redisExplorerCache) Get(ctx context.Context, key ExplorerKey) (*domain.ExplorerDashboard, bool, error) {
	payload, err := c.client.Get(ctx, buildExplorerKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var dashboard domain.ExplorerDashboard
	if err := json.Unmarshal(payload, &dashboard); err != nil {
		return nil, false, fmt.Errorf("decode explorer cache: %w", err)
	}

	return &dashboard, true, nil
}

func (c *redisExplorerCache) Set(ctx context.Context, key ExplorerKey, dashboard *domain.ExplorerDashboard) error {
	payload, err := json.Marshal(dashboard)
	if err != nil {
		return fmt.Errorf("encode explorer cache: %w", err)
	}

	if err := c.client.Set(ctx, buildExplorerKey(key), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisExplorerCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, explorerKeyPrefix, scanBatchSize)
}

func (c *redisExplorerCache) Close() error {
	return c.client.Close()
}

func (n *noopExplorerCache) Get(ctx context.Context, key ExplorerKey) (*domain.ExplorerDashboard, bool, error) {
	return nil, false, nil
}

func (n *noopExplorerCache) Set(ctx context.Context, key ExplorerKey, dashboard *domain.ExplorerDashboard) error {
	return nil
}

func (n *noopExplorerCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func (n *noopExplorerCache) Close() error {
	return nil
}

func buildExplorerKey(key ExplorerKey) string {
	return fmt.Sprintf("%s:%s", explorerKeyPrefix, explorerKeyHash(key))
}

// explorerKeyHash is stable for equivalent filters: values are normalized
// first, so "All", "" and padded spellings share an entry.
func explorerKeyHash(key ExplorerKey) string {
	filter := key.Filter.Normalize()
	parts := []string{
		"dataset=" + key.Fingerprint,
		"as_of=" + strings.TrimSpace(key.AsOf),
		"warehouse=" + filter.Warehouse,
		"buyer=" + filter.Buyer,
		"category=" + filter.Category,
	}

	sum := sha1.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}
