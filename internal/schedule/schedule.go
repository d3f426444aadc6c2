// Package schedule holds the publishing policies: the daily rate gate,
// the optimal-hour posting window, and the inter-post throttle.
package schedule

import (
	"context"
	"sort"
	"time"
)

// CanRunNow reports whether another live publish cycle is allowed today.
func CanRunNow(publishedToday, dailyCap int) bool {
	return publishedToday < dailyCap
}

// IsOptimalHour reports whether nowHour falls in the posting window.
// Platforms without preferred hours are always in the window.
//
// The tolerance is |nowHour - preferred| < 1, which at whole-hour
// granularity only ever matches the exact hour. Kept as-is: widening it
// would change when the bot goes live.
func IsOptimalHour(nowHour int, preferred []int) bool {
	if len(preferred) == 0 {
		return true
	}

	for _, h := range preferred {
		d := nowHour - h
		if d < 0 {
			d = -d
		}
		if d < 1 {
			return true
		}
	}

	return false
}

// NextOptimalTime returns the earliest preferred posting time strictly
// after now: the next preferred hour later today, or the first preferred
// hour tomorrow. With no preferred hours it returns now unchanged.
func NextOptimalTime(now time.Time, preferred []int) time.Time {
	if len(preferred) == 0 {
		return now
	}

	hours := append([]int(nil), preferred...)
	sort.Ints(hours)

	for _, h := range hours {
		if h > now.Hour() {
			return time.Date(now.Year(), now.Month(), now.Day(), h, 0, 0, 0, now.Location())
		}
	}

	tomorrow := now.AddDate(0, 0, 1)
	return time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), hours[0], 0, 0, 0, now.Location())
}

// WaitBetween blocks for interval between consecutive publishes. It is a
// no-op after the last post. Returns the context error if cancelled
// mid-wait.
func WaitBetween(ctx context.Context, index, total int, interval time.Duration) error {
	if index >= total-1 {
		return nil
	}

	timer := time.NewTimer(interval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
