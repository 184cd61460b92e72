package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"disaster-response/internal/common"
)

type CachedResourceLocation struct {
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Speed     float64   `json:"speed"`
	Heading   float64   `json:"heading"`
	Timestamp time.Time `json:"timestamp"`
}

// ResourceLocationCache keeps the latest GPS fix per resource so proximity
// reads don't always hit Postgres.
type ResourceLocationCache struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewResourceLocationCache(client *goredis.Client, ttlSeconds int) *ResourceLocationCache {
	return &ResourceLocationCache{
		client: client,
		ttl:    time.Duration(ttlSeconds) * time.Second,
	}
}

func (c *ResourceLocationCache) Set(ctx context.Context, resourceID string, loc common.Location, speed, heading float64) error {
	data := CachedResourceLocation{
		Lat:       loc.Lat,
		Lng:       loc.Lng,
		Speed:     speed,
		Heading:   heading,
		Timestamp: time.Now(),
	}
	bytes, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal resource location: %w", err)
	}
	return c.client.Set(ctx, resourceLocationKey(resourceID), bytes, c.ttl).Err()
}

func (c *ResourceLocationCache) Get(ctx context.Context, resourceID string) (*CachedResourceLocation, error) {
	bytes, err := c.client.Get(ctx, resourceLocationKey(resourceID)).Bytes()
	if err == goredis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get resource location: %w", err)
	}

	var loc CachedResourceLocation
	if err := json.Unmarshal(bytes, &loc); err != nil {
		return nil, fmt.Errorf("unmarshal resource location: %w", err)
	}
	return &loc, nil
}

func resourceLocationKey(resourceID string) string {
	return fmt.Sprintf("resource:location:%s", resourceID)
}
