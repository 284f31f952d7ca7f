package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"event-content-service/internal/model"

	"github.com/redis/go-redis/v9"
)

// SiteCache 公開站台查詢的快取層：active subdomain -> 活動內容。
// 只是 read-through 快取，miss 時回源資料庫，不是資料來源。
type SiteCache interface {
	// GetEvent 取得快取的活動，miss 時回傳 (nil, nil)
	GetEvent(ctx context.Context, subdomain string) (*model.Event, error)
	SetEvent(ctx context.Context, subdomain string, event *model.Event) error
	// Invalidate 刪除指定子網域的快取，活動變動後呼叫
	Invalidate(ctx context.Context, subdomains ...string) error
}

type SiteCacheImpl struct {
	client *redis.Client
	ttl    time.Duration
}

const defaultSiteCacheTTL = 5 * time.Minute

func NewSiteCache(client *redis.Client, ttl time.Duration) SiteCache {
	if ttl <= 0 {
		ttl = defaultSiteCacheTTL
	}
	return &SiteCacheImpl{
		client: client,
		ttl:    ttl,
	}
}

// 子網域快取 key
func (c *SiteCacheImpl) getSiteKey(subdomain string) string {
	return fmt.Sprintf("site:%s:event", subdomain)
}

func (c *SiteCacheImpl) GetEvent(ctx context.Context, subdomain string) (*model.Event, error) {
	key := c.getSiteKey(subdomain)

	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var event model.Event
	if err := json.Unmarshal([]byte(val), &event); err != nil {
		// 快取內容壞掉時當作 miss，順手刪掉
		_ = c.client.Del(ctx, key).Err()
		return nil, nil
	}

	return &event, nil
}

func (c *SiteCacheImpl) SetEvent(ctx context.Context, subdomain string, event *model.Event) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	key := c.getSiteKey(subdomain)
	return c.client.Set(ctx, key, eventJSON, c.ttl).Err()
}

func (c *SiteCacheImpl) Invalidate(ctx context.Context, subdomains ...string) error {
	if len(subdomains) == 0 {
		return nil
	}

	keys := make([]string, 0, len(subdomains))
	for _, subdomain := range subdomains {
		keys = append(keys, c.getSiteKey(subdomain))
	}

	return c.client.Del(ctx, keys...).Err()
}
