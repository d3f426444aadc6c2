package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanRunNow(t *testing.T) {
	tests := []struct {
		count, cap int
		want       bool
	}{
		{0, 3, true},
		{2, 3, true},
		{3, 3, false},
		{4, 3, false},
		{0, 0, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CanRunNow(tt.count, tt.cap),
			"count=%d cap=%d", tt.count, tt.cap)
	}
}

func TestIsOptimalHour(t *testing.T) {
	preferred := []int{11, 15, 19}

	t.Run("exact hour matches", func(t *testing.T) {
		assert.True(t, IsOptimalHour(11, preferred))
		assert.True(t, IsOptimalHour(15, preferred))
		assert.True(t, IsOptimalHour(19, preferred))
	})

	t.Run("other hours do not match", func(t *testing.T) {
		assert.False(t, IsOptimalHour(13, preferred))
		assert.False(t, IsOptimalHour(14, preferred))
		assert.False(t, IsOptimalHour(16, preferred))
		assert.False(t, IsOptimalHour(0, preferred))
	})

	t.Run("no preferred hours is always optimal", func(t *testing.T) {
		for hour := 0; hour < 24; hour++ {
			assert.True(t, IsOptimalHour(hour, nil))
		}
	})
}

func TestNextOptimalTime(t *testing.T) {
	preferred := []int{11, 15, 19}
	loc := time.UTC

	t.Run("next hour later today", func(t *testing.T) {
		now := time.Date(2026, 8, 31, 13, 0, 0, 0, loc)
		next := NextOptimalTime(now, preferred)

		assert.Equal(t, time.Date(2026, 8, 31, 15, 0, 0, 0, loc), next)
	})

	t.Run("current preferred hour is skipped", func(t *testing.T) {
		now := time.Date(2026, 8, 31, 15, 10, 0, 0, loc)
		next := NextOptimalTime(now, preferred)

		assert.Equal(t, time.Date(2026, 8, 31, 19, 0, 0, 0, loc), next)
	})

	t.Run("wraps to first hour tomorrow", func(t *testing.T) {
		now := time.Date(2026, 8, 31, 21, 30, 0, 0, loc)
		next := NextOptimalTime(now, preferred)

		assert.Equal(t, time.Date(2026, 9, 1, 11, 0, 0, 0, loc), next)
	})

	t.Run("always strictly in the future with a preferred hour", func(t *testing.T) {
		for hour := 0; hour < 24; hour++ {
			now := time.Date(2026, 8, 31, hour, 30, 0, 0, loc)
			next := NextOptimalTime(now, preferred)

			assert.True(t, next.After(now), "hour=%d", hour)
			assert.Contains(t, preferred, next.Hour(), "hour=%d", hour)
		}
	})

	t.Run("unsorted input", func(t *testing.T) {
		now := time.Date(2026, 8, 31, 12, 0, 0, 0, loc)
		next := NextOptimalTime(now, []int{19, 11, 15})

		assert.Equal(t, 15, next.Hour())
	})
}

func TestWaitBetween(t *testing.T) {
	ctx := context.Background()

	t.Run("no wait after last post", func(t *testing.T) {
		start := time.Now()
		err := WaitBetween(ctx, 2, 3, time.Second)
		require.NoError(t, err)
		assert.Less(t, time.Since(start), 100*time.Millisecond)
	})

	t.Run("waits between posts", func(t *testing.T) {
		start := time.Now()
		err := WaitBetween(ctx, 0, 3, 50*time.Millisecond)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("cancellable", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := WaitBetween(ctx, 0, 3, time.Minute)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
