package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	bookingRepo "sudzy/database/repository/booking"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	slotMinutes          = 30
	availabilityCacheTTL = 5 * time.Minute
)

// AvailabilityService derives the blocked calendar slots for a date range.
// Pure read: cancelled bookings free their slots, every other status blocks
// them, no_show included.
type AvailabilityService interface {
	BlockedSlots(ctx context.Context, from, to string) (map[string][]string, error)
}

// AvailabilityCache is a versioned Redis cache for availability reads.
// Mutations bump the version, which orphans every cached range so the next
// read sees fresh data immediately. A nil receiver disables caching.
type AvailabilityCache struct {
	client *redis.Client
	logger *zap.Logger
}

func NewAvailabilityCache(client *redis.Client, logger *zap.Logger) *AvailabilityCache {
	return &AvailabilityCache{client: client, logger: logger}
}

func (c *AvailabilityCache) key(ctx context.Context, from, to string) (string, error) {
	ver, err := c.client.Get(ctx, "availability:ver").Int64()
	if err != nil && err != redis.Nil {
		return "", err
	}
	return fmt.Sprintf("availability:%d:%s:%s", ver, from, to), nil
}

func (c *AvailabilityCache) Get(ctx context.Context, from, to string) (map[string][]string, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	key, err := c.key(ctx, from, to)
	if err != nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return nil, false
	}
	var slots map[string][]string
	if err := json.Unmarshal([]byte(raw), &slots); err != nil {
		return nil, false
	}
	return slots, true
}

func (c *AvailabilityCache) Set(ctx context.Context, from, to string, slots map[string][]string) {
	if c == nil || c.client == nil {
		return
	}
	key, err := c.key(ctx, from, to)
	if err != nil {
		return
	}
	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, availabilityCacheTTL).Err(); err != nil {
		c.logger.Warn("availability cache write failed", zap.Error(err))
	}
}

// Bump invalidates all cached availability ranges.
func (c *AvailabilityCache) Bump(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Incr(ctx, "availability:ver").Err(); err != nil {
		c.logger.Warn("availability cache bump failed", zap.Error(err))
	}
}

// DefaultAvailabilityService implements AvailabilityService over the booking
// repository with an optional read-through cache.
type DefaultAvailabilityService struct {
	Repo   bookingRepo.BookingRepository
	Cache  *AvailabilityCache
	Logger *zap.Logger
}

// BlockedSlots returns, per date, the "15:04" slot starts that are taken.
// Each booking blocks every 30-minute slot from its start up to its end.
func (s *DefaultAvailabilityService) BlockedSlots(ctx context.Context, from, to string) (map[string][]string, error) {
	if _, err := time.Parse("2006-01-02", from); err != nil {
		return nil, fmt.Errorf("invalid range start %q: %w", from, err)
	}
	if _, err := time.Parse("2006-01-02", to); err != nil {
		return nil, fmt.Errorf("invalid range end %q: %w", to, err)
	}

	if cached, ok := s.Cache.Get(ctx, from, to); ok {
		return cached, nil
	}

	bookings, err := s.Repo.FindByDateRange(from, to, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings for availability: %w", err)
	}

	blocked := make(map[string][]string)
	seen := make(map[string]map[string]bool)
	for _, b := range bookings {
		start, err := time.Parse("15:04", b.StartTime)
		if err != nil {
			s.Logger.Warn("booking with invalid start time skipped",
				zap.String("bookingId", b.ID), zap.String("startTime", b.StartTime))
			continue
		}
		end, err := time.Parse("15:04", b.EndTime)
		if err != nil {
			s.Logger.Warn("booking with invalid end time skipped",
				zap.String("bookingId", b.ID), zap.String("endTime", b.EndTime))
			continue
		}

		if seen[b.Date] == nil {
			seen[b.Date] = make(map[string]bool)
		}
		for cur := start; cur.Before(end); cur = cur.Add(slotMinutes * time.Minute) {
			slot := cur.Format("15:04")
			if !seen[b.Date][slot] {
				seen[b.Date][slot] = true
				blocked[b.Date] = append(blocked[b.Date], slot)
			}
		}
	}
	for date := range blocked {
		sort.Strings(blocked[date])
	}

	s.Cache.Set(ctx, from, to, blocked)
	return blocked, nil
}
