package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"wakala/internal/model"
)

// CachedStore is a read-through Redis cache in front of a ScheduleStore.
// Cache failures are treated as misses; the backing store stays the source
// of truth.
type CachedStore struct {
	store ScheduleStore
	redis *redis.Client
	ttl   time.Duration
}

// NewCachedStore wraps store with a Redis cache.
func NewCachedStore(store ScheduleStore, rdb *redis.Client, ttl time.Duration) *CachedStore {
	return &CachedStore{store: store, redis: rdb, ttl: ttl}
}

type cachedOverride struct {
	Override *model.DayOverride `json:"override"`
}

type cachedWeekday struct {
	Schedule *model.WeekdaySchedule `json:"schedule"`
}

func overrideKey(date time.Time) string {
	return "schedule:override:" + date.Format("2006-01-02")
}

func weekdayKey(weekday int) string {
	return fmt.Sprintf("schedule:weekday:%d", weekday)
}

// GetDayOverride implements ScheduleStore.
func (c *CachedStore) GetDayOverride(ctx context.Context, date time.Time) (*model.DayOverride, error) {
	key := overrideKey(DateOnly(date))

	var wrap cachedOverride
	if c.readCache(ctx, key, &wrap) {
		return wrap.Override, nil
	}

	override, err := c.store.GetDayOverride(ctx, date)
	if err != nil {
		return nil, err
	}
	// Absent rows are cached too, so holiday-free weeks do not hammer the db.
	c.writeCache(ctx, key, cachedOverride{Override: override})
	return override, nil
}

// GetWeekdaySchedule implements ScheduleStore.
func (c *CachedStore) GetWeekdaySchedule(ctx context.Context, weekday int) (*model.WeekdaySchedule, error) {
	key := weekdayKey(weekday)

	var wrap cachedWeekday
	if c.readCache(ctx, key, &wrap) {
		return wrap.Schedule, nil
	}

	sched, err := c.store.GetWeekdaySchedule(ctx, weekday)
	if err != nil {
		return nil, err
	}
	c.writeCache(ctx, key, cachedWeekday{Schedule: sched})
	return sched, nil
}

// InvalidateDate drops the cached override for a date. Called after
// override writes.
func (c *CachedStore) InvalidateDate(ctx context.Context, date time.Time) {
	if c.redis == nil {
		return
	}
	_ = c.redis.Del(ctx, overrideKey(DateOnly(date))).Err()
}

// InvalidateWeekday drops the cached default for a weekday. Called after
// weekly schedule writes.
func (c *CachedStore) InvalidateWeekday(ctx context.Context, weekday int) {
	if c.redis == nil {
		return
	}
	_ = c.redis.Del(ctx, weekdayKey(weekday)).Err()
}

func (c *CachedStore) readCache(ctx context.Context, key string, out any) bool {
	if c.redis == nil || c.ttl <= 0 {
		return false
	}
	val, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		return false
	}
	return true
}

func (c *CachedStore) writeCache(ctx context.Context, key string, val any) {
	if c.redis == nil || c.ttl <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, key, data, c.ttl).Err()
}
