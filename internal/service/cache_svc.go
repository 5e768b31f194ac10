package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shrike012/Streamline/internal/insight"
	"github.com/shrike012/Streamline/internal/model"
)

// Cache TTLs. Video listings go stale fast; channel metadata barely moves;
// insight classifications are expensive (two embedding round-trips) and
// profiles are analyzed once, so they keep for a week.
const (
	ChannelVideosTTL = 15 * time.Minute
	ChannelMetaTTL   = 24 * time.Hour
)

// CacheService provides a Redis cache-aside layer. A nil client degrades
// every operation to a no-op so the API keeps working without Redis.
type CacheService struct {
	rdb *redis.Client
}

// NewCacheService creates a CacheService. If redisURL is empty or the
// connection fails, caching is disabled rather than fatal.
func NewCacheService(redisURL string) *CacheService {
	if redisURL == "" {
		log.Println("redis: no URL configured, caching disabled")
		return &CacheService{}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("redis: invalid URL %q, caching disabled: %v", redisURL, err)
		return &CacheService{}
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("redis: connection failed, caching disabled: %v", err)
		return &CacheService{}
	}

	log.Println("redis: connected, caching enabled")
	return &CacheService{rdb: rdb}
}

// Client returns the underlying Redis client (for health checks). May be nil.
func (c *CacheService) Client() *redis.Client {
	return c.rdb
}

// GetChannelVideos retrieves a cached scored video listing. Returns nil when
// not cached or caching is disabled.
func (c *CacheService) GetChannelVideos(ctx context.Context, channelID string) (*model.ChannelVideosResponse, error) {
	if c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, channelVideosKey(channelID)).Bytes()
	if err == redis.Nil {
		cacheMisses.Inc()
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var resp model.ChannelVideosResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, nil
	}
	cacheHits.Inc()
	return &resp, nil
}

// SetChannelVideos stores a scored video listing.
func (c *CacheService) SetChannelVideos(ctx context.Context, channelID string, resp *model.ChannelVideosResponse) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, channelVideosKey(channelID), b, ChannelVideosTTL).Err()
}

// GetChannelMeta retrieves cached channel metadata.
func (c *CacheService) GetChannelMeta(ctx context.Context, channelID string) (*model.Channel, error) {
	if c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, channelMetaKey(channelID)).Bytes()
	if err == redis.Nil {
		cacheMisses.Inc()
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var ch model.Channel
	if err := json.Unmarshal(data, &ch); err != nil {
		return nil, nil
	}
	cacheHits.Inc()
	return &ch, nil
}

// SetChannelMeta stores channel metadata.
func (c *CacheService) SetChannelMeta(ctx context.Context, channelID string, ch *model.Channel) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(ch)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, channelMetaKey(channelID), b, ChannelMetaTTL).Err()
}

// GetClassification implements insight.Cache.
func (c *CacheService) GetClassification(ctx context.Context, key string) (*insight.Classification, bool, error) {
	if c.rdb == nil {
		return nil, false, nil
	}
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		cacheMisses.Inc()
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var cls insight.Classification
	if err := json.Unmarshal(data, &cls); err != nil {
		return nil, false, nil
	}
	cacheHits.Inc()
	return &cls, true, nil
}

// SetClassification implements insight.Cache.
func (c *CacheService) SetClassification(ctx context.Context, key string, cls *insight.Classification, ttl time.Duration) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(cls)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, ttl).Err()
}

// Close shuts down the Redis connection.
func (c *CacheService) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func channelVideosKey(channelID string) string {
	return fmt.Sprintf("channelvideos:%s", channelID)
}

func channelMetaKey(channelID string) string {
	return fmt.Sprintf("channelmeta:%s", channelID)
}
