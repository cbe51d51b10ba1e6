package availability

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"time"

	"rvpark/src/config"
	"rvpark/src/daterange"
	"rvpark/src/models"
	"rvpark/src/store"
	"rvpark/src/types"

	"github.com/redis/go-redis/v9"
)

const cacheTTL = 10 * time.Minute

// Index answers calendar queries over the reservation store. It is a read
// optimization only: conflict checks always go to the store, never to the
// cached month views, so a stale cache can never admit a double booking.
type Index struct {
	store *store.ReservationStore
	cache *redis.Client
}

func New(s *store.ReservationStore, cache *redis.Client) *Index {
	return &Index{store: s, cache: cache}
}

// IsFree reports whether rng has no active reservation of the given site
// class, along with the conflicting stays when it does.
func (ix *Index) IsFree(ctx context.Context, siteClass types.SiteClass, rng daterange.Range) (bool, []daterange.Range, error) {
	active, err := ix.store.ListActiveInRange(ctx, siteClass, rng)
	if err != nil {
		return false, nil, err
	}
	if len(active) == 0 {
		return true, nil, nil
	}
	conflicts := make([]daterange.Range, 0, len(active))
	for i := range active {
		conflicts = append(conflicts, active[i].Range())
	}
	return false, conflicts, nil
}

// OccupiedDays lists every date in the given month touched by an active
// reservation, for rendering the booking calendar grid. Month views are
// cached per (siteClass, month) and dropped on every store mutation.
func (ix *Index) OccupiedDays(ctx context.Context, siteClass types.SiteClass, year int, month time.Month) ([]string, error) {
	window := daterange.Month(year, month)
	key := cacheKey(siteClass, window.Start)

	if ix.cache != nil {
		cached, err := ix.cache.Get(ctx, key).Result()
		if err == nil {
			var days []string
			if err := json.Unmarshal([]byte(cached), &days); err == nil {
				return days, nil
			}
		} else if err != redis.Nil {
			log.Printf("[availability] cache read failed for %s: %s\n", key, err.Error())
		}
	}

	active, err := ix.store.ListActiveInRange(ctx, siteClass, window)
	if err != nil {
		return nil, err
	}
	days := OccupiedDaySet(active, window)

	if ix.cache != nil {
		body, _ := json.Marshal(days)
		if err := ix.cache.Set(ctx, key, string(body), cacheTTL).Err(); err != nil {
			log.Printf("[availability] cache write failed for %s: %s\n", key, err.Error())
		}
	}
	return days, nil
}

// Invalidate drops the cached month views touched by rng. Called after
// every insert, cancel or confirm so calendar reads re-derive from the
// store.
func (ix *Index) Invalidate(ctx context.Context, siteClass types.SiteClass, rng daterange.Range) {
	if ix.cache == nil {
		return
	}
	first := time.Date(rng.Start.Year(), rng.Start.Month(), 1, 0, 0, 0, 0, time.UTC)
	for m := first; m.Before(rng.End); m = m.AddDate(0, 1, 0) {
		key := cacheKey(siteClass, m)
		if err := ix.cache.Del(ctx, key).Err(); err != nil {
			log.Printf("[availability] cache invalidation failed for %s: %s\n", key, err.Error())
		}
	}
}

// OccupiedDaySet expands reservations into the sorted set of occupied
// dates inside window. Check-in days count, checkout days do not.
func OccupiedDaySet(reservations []models.Reservation, window daterange.Range) []string {
	seen := map[string]bool{}
	for i := range reservations {
		stay := reservations[i].Range()
		for _, day := range daterange.Days(stay) {
			if daterange.Contains(window, day) {
				seen[day.Format(config.DATE_PARSE_FORMAT)] = true
			}
		}
	}
	days := make([]string, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}
	sort.Strings(days)
	return days
}

func cacheKey(siteClass types.SiteClass, monthStart time.Time) string {
	return fmt.Sprintf("availability:%s:%s", siteClass, monthStart.Format(config.MONTH_PARSE_FORMAT))
}
