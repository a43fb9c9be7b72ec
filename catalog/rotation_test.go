package catalog

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyberquest-api/models"
)

func habitPool(n int) []models.Habit {
	pool := make([]models.Habit, n)
	for i := range pool {
		pool[i] = models.Habit{ID: fmt.Sprintf("habit_%d", i)}
	}
	return pool
}

func TestSelectForPeriodDeterministic(t *testing.T) {
	pool := habitPool(10)

	first := SelectForPeriod(pool, 20250310, 3)
	second := SelectForPeriod(pool, 20250310, 3)
	require.Len(t, first, 3)
	assert.Equal(t, first, second, "same seed must give the same ordered selection")
}

func TestSelectForPeriodVariesWithSeed(t *testing.T) {
	pool := habitPool(10)

	differs := false
	base := SelectForPeriod(pool, 20250310, 3)
	for seed := int64(20250311); seed <= 20250320; seed++ {
		if !assert.ObjectsAreEqual(base, SelectForPeriod(pool, seed, 3)) {
			differs = true
			break
		}
	}
	assert.True(t, differs, "ten consecutive seeds should not all repeat the same selection")
}

func TestSelectForPeriodNoDuplicates(t *testing.T) {
	pool := habitPool(8)

	for seed := int64(1); seed <= 50; seed++ {
		selected := SelectForPeriod(pool, seed, 5)
		seen := make(map[string]bool, len(selected))
		for _, h := range selected {
			assert.False(t, seen[h.ID], "seed %d picked %s twice", seed, h.ID)
			seen[h.ID] = true
		}
	}
}

func TestSelectForPeriodCountClamping(t *testing.T) {
	pool := habitPool(2)

	selected := SelectForPeriod(pool, 42, 5)
	assert.Len(t, selected, 2, "count larger than the pool returns the whole pool")

	selected = SelectForPeriod(pool, 42, 0)
	assert.Empty(t, selected)

	selected = SelectForPeriod(nil, 42, 3)
	assert.Empty(t, selected)
}

func TestSelectForPeriodLeavesPoolIntact(t *testing.T) {
	pool := habitPool(6)
	original := make([]models.Habit, len(pool))
	copy(original, pool)

	SelectForPeriod(pool, 99, 4)
	assert.Equal(t, original, pool, "the shuffle must work on a copy")
}

func TestPeriodSeeds(t *testing.T) {
	d := time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)

	assert.Equal(t, int64(20250310), DailySeed(d))
	assert.Equal(t, int64(202503), MonthlySeed(d))
	assert.Equal(t, int64(2025), YearlySeed(d))

	// Any clock time within the same day maps to the same seeds
	later := time.Date(2025, 3, 10, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, DailySeed(d), DailySeed(later))
}

func TestTodaysHabitsComposition(t *testing.T) {
	cat, err := Load()
	require.NoError(t, err)

	day := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	habits := cat.TodaysHabits(day, DefaultRotationCounts)
	require.Len(t, habits, 6)

	assert.Equal(t, "daily", habits[0].Frequency)
	assert.Equal(t, "daily", habits[1].Frequency)
	assert.Equal(t, "daily", habits[2].Frequency)
	assert.Equal(t, "monthly", habits[3].Frequency)
	assert.Equal(t, "monthly", habits[4].Frequency)
	assert.Equal(t, "yearly", habits[5].Frequency)

	// Stable within the day, regardless of clock time
	evening := time.Date(2025, 3, 10, 22, 0, 0, 0, time.UTC)
	assert.Equal(t, habits, cat.TodaysHabits(evening, DefaultRotationCounts))
}

func TestMonthlySelectionStableAcrossTheMonth(t *testing.T) {
	cat, err := Load()
	require.NoError(t, err)

	first := cat.MonthlyHabits(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), 2)
	last := cat.MonthlyHabits(time.Date(2025, 3, 31, 23, 0, 0, 0, time.UTC), 2)
	assert.Equal(t, first, last)

	april := cat.MonthlyHabits(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), 2)
	assert.Len(t, april, 2, "a new month reselects from the same pool")
}
