package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// BusinessHours is the daily window within which free slots are generated
type BusinessHours struct {
	Start int // first bookable hour, inclusive
	End   int // closing hour; no slot may extend past it
}

// DefaultBusinessHours is 8:00-18:00
var DefaultBusinessHours = BusinessHours{Start: 8, End: 18}

// Availability derives free slots and availability flags from the ledger.
// Pure reads; never mutates state. Results may optionally be cached in
// Redis for a short TTL, which is within the read-committed tolerance the
// slot views accept.
type Availability struct {
	repo     Repository
	hours    BusinessHours
	cache    *redis.Client // nil disables caching
	cacheTTL time.Duration
}

// NewAvailability creates the availability calculator
func NewAvailability(repo Repository, hours BusinessHours, cache *redis.Client, cacheTTL time.Duration) *Availability {
	if hours.End <= hours.Start {
		hours = DefaultBusinessHours
	}
	return &Availability{repo: repo, hours: hours, cache: cache, cacheTTL: cacheTTL}
}

// FreeSlots returns the free slots of slotHours width for the space on the
// given calendar date, ascending by start time. Candidate slots begin at
// each whole hour in [Start, End-slotHours]; a candidate survives iff it
// overlaps no confirmed booking of that day.
func (a *Availability) FreeSlots(ctx context.Context, spaceID uuid.UUID, date time.Time, slotHours int) ([]Interval, error) {
	if slotHours < 1 {
		slotHours = 1
	}

	cacheKey := fmt.Sprintf("avail:%s:%s:%d", spaceID, date.Format("2006-01-02"), slotHours)
	if slots, ok := a.cached(ctx, cacheKey); ok {
		return slots, nil
	}

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	bookings, err := a.repo.ListBySpace(ctx, spaceID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	slots := []Interval{}
	for hour := a.hours.Start; hour <= a.hours.End-slotHours; hour++ {
		slot := Interval{
			Start: dayStart.Add(time.Duration(hour) * time.Hour),
			End:   dayStart.Add(time.Duration(hour+slotHours) * time.Hour),
		}

		taken := false
		for _, b := range bookings {
			if slot.Overlaps(b.Interval()) {
				taken = true
				break
			}
		}

		if !taken {
			slots = append(slots, slot)
		}
	}

	a.store(ctx, cacheKey, slots)
	return slots, nil
}

// Flags reports, for each space, whether the interval is free of confirmed
// bookings. Used to color the floor map.
func (a *Availability) Flags(ctx context.Context, spaceIDs []uuid.UUID, iv Interval) (map[uuid.UUID]bool, error) {
	flags := make(map[uuid.UUID]bool, len(spaceIDs))
	for _, id := range spaceIDs {
		overlapping, err := a.repo.FindOverlapping(ctx, id, iv)
		if err != nil {
			return nil, err
		}
		flags[id] = len(overlapping) == 0
	}
	return flags, nil
}

func (a *Availability) cached(ctx context.Context, key string) ([]Interval, bool) {
	if a.cache == nil {
		return nil, false
	}
	raw, err := a.cache.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var slots []Interval
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, false
	}
	return slots, true
}

func (a *Availability) store(ctx context.Context, key string, slots []Interval) {
	if a.cache == nil || a.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}
	if err := a.cache.Set(ctx, key, raw, a.cacheTTL).Err(); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("availability cache write failed")
	}
}
