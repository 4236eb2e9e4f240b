package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tisport/tisport/internal/entity"

	"github.com/go-redis/redis/v8"
)

// CacheRepository caches event reads and tracks event popularity by view
// count. All methods are best-effort; callers fall back to Postgres on error.
type CacheRepository struct {
	client *redis.Client
	ctx    context.Context
	ttl    time.Duration
}

func NewCacheRepository(client *redis.Client, ttl time.Duration) *CacheRepository {
	return &CacheRepository{
		client: client,
		ctx:    context.Background(),
		ttl:    ttl,
	}
}

func (r *CacheRepository) SetEvent(slug string, event *entity.EventWithAvailability) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return r.client.Set(r.ctx, "event:"+slug, data, r.ttl).Err()
}

func (r *CacheRepository) GetEvent(slug string) (*entity.EventWithAvailability, error) {
	data, err := r.client.Get(r.ctx, "event:"+slug).Result()
	if err != nil {
		return nil, err
	}

	var event entity.EventWithAvailability
	err = json.Unmarshal([]byte(data), &event)
	if err != nil {
		return nil, err
	}

	return &event, nil
}

func (r *CacheRepository) DeleteEvent(slug string) error {
	return r.client.Del(r.ctx, "event:"+slug).Err()
}

func (r *CacheRepository) IncrementPopularity(slug string) error {
	return r.client.ZIncrBy(r.ctx, "popular_events", 1, slug).Err()
}

func (r *CacheRepository) GetPopularEvents(count int) ([]string, error) {
	result, err := r.client.ZRevRange(r.ctx, "popular_events", 0, int64(count-1)).Result()
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SetEventStats caches the admin report for an event under a short TTL so
// repeated dashboard refreshes do not hammer the aggregate query.
func (r *CacheRepository) SetEventStats(eventID int64, stats *entity.EventStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}

	return r.client.Set(r.ctx, fmt.Sprintf("event_stats:%d", eventID), data, time.Minute).Err()
}

func (r *CacheRepository) GetEventStats(eventID int64) (*entity.EventStats, error) {
	data, err := r.client.Get(r.ctx, fmt.Sprintf("event_stats:%d", eventID)).Result()
	if err != nil {
		return nil, err
	}

	var stats entity.EventStats
	err = json.Unmarshal([]byte(data), &stats)
	if err != nil {
		return nil, err
	}

	return &stats, nil
}
