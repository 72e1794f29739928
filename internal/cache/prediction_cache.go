package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sangrahak/inventroops/internal/config"
	"github.com/sangrahak/inventroops/internal/domain"
)

const (
	predictionKeyPrefix     = "prediction:record"
	predictionScanBatchSize = 100
)

// PredictionCache keeps recently computed forecast records so repeated
// requests with identical features skip the model entirely.
type PredictionCache interface {
	Get(ctx context.Context, req domain.PredictionRequest) (*domain.ForecastRecord, bool, error)
	Set(ctx context.Context, req domain.PredictionRequest, record *domain.ForecastRecord) error
	InvalidateAll(ctx context.Context) error
}

type redisPredictionCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopPredictionCache struct{}

func NewPredictionCache(cfg config.CacheConfig) (PredictionCache, error) {
	if !cfg.Enabled {
		return &noopPredictionCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisPredictionCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopPredictionCache() PredictionCache {
	return &noopPredictionCache{}
}

func (c *redisPredictionCache) Get(ctx context.Context, req domain.PredictionRequest) (*domain.ForecastRecord, bool, error) {
	key := buildPredictionKey(req)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var record domain.ForecastRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, false, fmt.Errorf("decode prediction cache: %w", err)
	}

	return &record, true, nil
}

func (c *redisPredictionCache) Set(ctx context.Context, req domain.PredictionRequest, record *domain.ForecastRecord) error {
	key := buildPredictionKey(req)
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode prediction cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisPredictionCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, predictionKeyPrefix, predictionScanBatchSize)
}

func (n *noopPredictionCache) Get(ctx context.Context, req domain.PredictionRequest) (*domain.ForecastRecord, bool, error) {
	return nil, false, nil
}

func (n *noopPredictionCache) Set(ctx context.Context, req domain.PredictionRequest, record *domain.ForecastRecord) error {
	return nil
}

func (n *noopPredictionCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildPredictionKey(req domain.PredictionRequest) string {
	return fmt.Sprintf("%s:%s", predictionKeyPrefix, predictionRequestHash(req))
}

// predictionRequestHash canonicalizes the request fields that influence the
// prediction so that equivalent requests hash to the same key.
func predictionRequestHash(req domain.PredictionRequest) string {
	parts := []string{
		strings.ToLower(strings.TrimSpace(req.SKU)),
		fmt.Sprintf("%.4f", req.CurrentStock),
		fmt.Sprintf("%.4f", req.DailySales),
		fmt.Sprintf("%.4f", req.WeeklySales),
		fmt.Sprintf("%.4f", req.ReorderLevel),
		fmt.Sprintf("%.4f", req.LeadTime),
		strings.ToLower(strings.TrimSpace(req.Brand)),
		strings.ToLower(strings.TrimSpace(req.Category)),
		strings.ToLower(strings.TrimSpace(req.Location)),
		strings.ToLower(strings.TrimSpace(req.SupplierName)),
		fmt.Sprintf("%d", req.ForecastDays),
	}

	sum := sha1.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}
