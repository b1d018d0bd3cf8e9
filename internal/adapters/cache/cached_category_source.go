package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-planner/internal/core/domain"
	"github.com/comitanigiacomo/kanso-planner/internal/core/services"
	"github.com/comitanigiacomo/kanso-planner/internal/logger"
)

const categoryTTL = 30 * time.Minute

var _ services.CategorySource = (*CachedCategorySource)(nil)

// CachedCategorySource memoizes discovered categories per health week.
type CachedCategorySource struct {
	next  services.CategorySource
	cache *redis.Client
	log   *logger.Logger
}

func NewCachedCategorySource(next services.CategorySource, cache *redis.Client, log *logger.Logger) *CachedCategorySource {
	return &CachedCategorySource{
		next:  next,
		cache: cache,
		log:   log.Named("cache"),
	}
}

func (c *CachedCategorySource) cacheKey(date time.Time) string {
	return fmt.Sprintf("categories:%s", domain.HealthWeek(date).Start.Format("2006-01-02"))
}

// Invalidate drops the cached set of date's week.
func (c *CachedCategorySource) Invalidate(ctx context.Context, date time.Time) {
	if err := c.cache.Del(ctx, c.cacheKey(date)).Err(); err != nil {
		c.log.Warn("failed to invalidate categories", zap.Time("date", date), zap.Error(err))
	}
}

func (c *CachedCategorySource) Categories(ctx context.Context, date time.Time) (*domain.CategorySet, error) {
	key := c.cacheKey(date)

	val, err := c.cache.Get(ctx, key).Result()
	if err == nil {
		var names []string
		if err := json.Unmarshal([]byte(val), &names); err == nil && len(names) > 0 {
			return domain.CategorySetFrom(names), nil
		}

		c.log.Warn("corrupted category cache, cleaning up key", zap.String("key", key))
		c.cache.Del(ctx, key)
	} else if err != redis.Nil {
		c.log.Warn("redis read error", zap.Error(err))
	}

	set, err := c.next.Categories(ctx, date)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(set.Names()); err == nil {
		if setErr := c.cache.Set(ctx, key, data, categoryTTL).Err(); setErr != nil {
			c.log.Warn("redis set error", zap.Error(setErr))
		}
	}

	return set, nil
}
