package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// HotelCacheTTL is the time-to-live for cached hotel reads. Hotel data
	// changes rarely but prices do move, so entries stay short-lived.
	HotelCacheTTL = 5 * time.Minute

	hotelCacheKeyPrefix = "hotel"
	hotelListCacheKey   = "hotels:all"
)

// HotelCache is a read-through cache for backend hotel lookups. Values are
// stored as JSON so the catalog read models round-trip without a separate
// cache schema.
type HotelCache struct {
	client *RedisClient
}

// NewHotelCache creates a HotelCache backed by the given RedisClient.
func NewHotelCache(r *RedisClient) *HotelCache {
	return &HotelCache{client: r}
}

// GetList retrieves the cached full hotel list into out.
// Returns redis.Nil when the list is not cached or has expired.
func (c *HotelCache) GetList(ctx context.Context, out any) error {
	payload, err := c.client.Client().Get(ctx, hotelListCacheKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return err // key not found
		}
		return fmt.Errorf("cache get list: %w", err)
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("cache decode list: %w", err)
	}
	return nil
}

// SetList caches the full hotel list with the standard TTL.
func (c *HotelCache) SetList(ctx context.Context, hotels any) error {
	payload, err := json.Marshal(hotels)
	if err != nil {
		return fmt.Errorf("cache encode list: %w", err)
	}
	if err := c.client.Client().Set(ctx, hotelListCacheKey, payload, HotelCacheTTL).Err(); err != nil {
		return fmt.Errorf("cache set list: %w", err)
	}
	return nil
}

// Get retrieves one cached hotel into out.
// Returns redis.Nil when the hotel is not cached or has expired.
func (c *HotelCache) Get(ctx context.Context, hotelID string, out any) error {
	payload, err := c.client.Client().Get(ctx, c.key(hotelID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return err // key not found
		}
		return fmt.Errorf("cache get: %w", err)
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("cache decode: %w", err)
	}
	return nil
}

// Set caches one hotel with the standard TTL.
func (c *HotelCache) Set(ctx context.Context, hotelID string, hotel any) error {
	payload, err := json.Marshal(hotel)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.client.Client().Set(ctx, c.key(hotelID), payload, HotelCacheTTL).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Invalidate drops the cached list and one hotel entry.
func (c *HotelCache) Invalidate(ctx context.Context, hotelID string) error {
	if err := c.client.Client().Del(ctx, hotelListCacheKey, c.key(hotelID)).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}

// key builds the Redis key: "hotel:{hotelID}"
func (c *HotelCache) key(hotelID string) string {
	return fmt.Sprintf("%s:%s", hotelCacheKeyPrefix, hotelID)
}
