package repository

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vendorwatch/risk-backend/internal/risk/domain"
)

const (
	docSetKeyPrefix = "risk:docs:" // cached collection result per query hash
	docSetTTL       = 10 * time.Minute
)

// DocCache caches collected document sets in Redis keyed by a query hash.
// Document IDs are deterministic hashes of URLs, so a cached set dedups
// against fresh provider output across calls. Best effort throughout: a
// broken cache degrades to re-collection, never to an error.
type DocCache struct {
	client *redis.Client
}

func NewDocCache(client *redis.Client) *DocCache {
	return &DocCache{client: client}
}

// GetDocs returns the cached document set for a key, if present.
func (c *DocCache) GetDocs(ctx context.Context, key string) ([]domain.Document, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, docSetKeyPrefix+key).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Printf("[cache] get failed key=%s err=%v", key, err)
		return nil, false
	}

	var docs []domain.Document
	if err := json.Unmarshal([]byte(data), &docs); err != nil {
		log.Printf("[cache] unmarshal failed key=%s err=%v", key, err)
		return nil, false
	}
	return docs, true
}

// SetDocs stores a document set under a key with a short TTL.
func (c *DocCache) SetDocs(ctx context.Context, key string, docs []domain.Document) {
	if c == nil || c.client == nil || len(docs) == 0 {
		return
	}

	data, err := json.Marshal(docs)
	if err != nil {
		log.Printf("[cache] marshal failed key=%s err=%v", key, err)
		return
	}
	if err := c.client.Set(ctx, docSetKeyPrefix+key, data, docSetTTL).Err(); err != nil {
		log.Printf("[cache] set failed key=%s err=%v", key, err)
	}
}
