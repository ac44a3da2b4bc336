package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aseka33/nyumba-ai-marketplace/models"
)

const analysisCacheTTL = 5 * time.Minute

// Cache is a Redis-backed cache for completed analysis responses on the
// polling path. The service runs fine without it; callers treat a nil *Cache
// as cache-off.
type Cache struct {
	client *redis.Client
}

// NewCache connects to Redis and verifies the connection.
func NewCache(addr, password string, db int) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis unavailable: %w", err)
	}
	return &Cache{client: client}, nil
}

func (c *Cache) Close() error {
	return c.client.Close()
}

func analysisKey(assetID string) string {
	return "analysis:" + assetID
}

// GetAnalysis returns the cached response for an asset, or nil on miss.
func (c *Cache) GetAnalysis(ctx context.Context, assetID string) (*models.AnalysisResponse, error) {
	data, err := c.client.Get(ctx, analysisKey(assetID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var resp models.AnalysisResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SetAnalysis caches a completed analysis response.
func (c *Cache) SetAnalysis(ctx context.Context, assetID string, resp *models.AnalysisResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	c.client.Set(ctx, analysisKey(assetID), data, analysisCacheTTL)
}

// InvalidateAnalysis drops the cached response for an asset.
func (c *Cache) InvalidateAnalysis(assetID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	c.client.Del(ctx, analysisKey(assetID))
}
