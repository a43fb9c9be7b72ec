package progression

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleHabit(t *testing.T) {
	engine, _ := newTestEngine(t)

	_, err := engine.InitProfile(1)
	require.NoError(t, err)

	t.Run("EnableGrantsPoints", func(t *testing.T) {
		resp, err := engine.ToggleHabit(1, "check_links", true)
		require.NoError(t, err)

		assert.True(t, resp.Enabled)
		assert.Equal(t, 10, resp.PointsAwarded)
		assert.True(t, resp.Profile.SecurityHabits["check_links"])

		// First enabled habit also earns the habit_starter badge
		require.Len(t, resp.AwardedBadges, 1)
		assert.Equal(t, "habit_starter", resp.AwardedBadges[0].ID)
		assert.Equal(t, 60, resp.Profile.TotalPoints)
	})

	t.Run("ReEnableGrantsNothing", func(t *testing.T) {
		resp, err := engine.ToggleHabit(1, "check_links", true)
		require.NoError(t, err)
		assert.Equal(t, 0, resp.PointsAwarded)
		assert.Equal(t, 60, resp.Profile.TotalPoints)
	})

	t.Run("DisableGrantsNothingAndRevokesNothing", func(t *testing.T) {
		resp, err := engine.ToggleHabit(1, "check_links", false)
		require.NoError(t, err)

		assert.False(t, resp.Enabled)
		assert.Equal(t, 0, resp.PointsAwarded)
		assert.Equal(t, 60, resp.Profile.TotalPoints, "points are never clawed back")
		assert.True(t, resp.Profile.HasBadge("habit_starter"), "badges are never revoked")
	})

	t.Run("ReEnableAfterDisableGrantsAgain", func(t *testing.T) {
		resp, err := engine.ToggleHabit(1, "check_links", true)
		require.NoError(t, err)
		assert.Equal(t, 10, resp.PointsAwarded, "each off-to-on transition pays out")
	})

	t.Run("UnknownHabit", func(t *testing.T) {
		_, err := engine.ToggleHabit(1, "floss_daily", true)
		assert.ErrorIs(t, err, ErrUnknownHabit)
	})
}

func TestToggleHabitBadgeCascade(t *testing.T) {
	engine, _ := newTestEngine(t)

	_, err := engine.InitProfile(1)
	require.NoError(t, err)
	_, _, err = engine.ApplyPoints(1, 460, "seed")
	require.NoError(t, err)

	// The toggle's 10 points plus the habit_starter award push the total past
	// 500, which qualifies point_collector in the same evaluation
	resp, err := engine.ToggleHabit(1, "lock_devices", true)
	require.NoError(t, err)

	badgeIDs := make([]string, 0, len(resp.AwardedBadges))
	for _, b := range resp.AwardedBadges {
		badgeIDs = append(badgeIDs, b.ID)
	}
	assert.Equal(t, []string{"habit_starter", "point_collector"}, badgeIDs)

	// 460 + 10 + 50 + 100
	assert.Equal(t, 620, resp.Profile.TotalPoints)
	assert.Equal(t, 2, resp.Profile.Level)
}

func TestHabitBuilderBadgeOnFourthHabit(t *testing.T) {
	engine, _ := newTestEngine(t)

	_, err := engine.InitProfile(1)
	require.NoError(t, err)

	// habit_builder requires 4 enabled habits, whatever the order
	habits := []string{"backup_data", "check_links", "security_review"}
	for _, id := range habits {
		resp, err := engine.ToggleHabit(1, id, true)
		require.NoError(t, err)
		assert.False(t, resp.Profile.HasBadge("habit_builder"),
			"three habits must not qualify yet")
	}

	resp, err := engine.ToggleHabit(1, "password_audit", true)
	require.NoError(t, err)

	assert.True(t, resp.Profile.HasBadge("habit_builder"))
	found := false
	for _, b := range resp.AwardedBadges {
		if b.ID == "habit_builder" {
			found = true
		}
	}
	assert.True(t, found, "the fourth toggle triggers the award")
}

func TestHabitStates(t *testing.T) {
	engine, _ := newTestEngine(t)

	_, err := engine.InitProfile(1)
	require.NoError(t, err)
	_, err = engine.ToggleHabit(1, "secure_wifi", true)
	require.NoError(t, err)

	states, err := engine.HabitStates(1)
	require.NoError(t, err)
	require.Len(t, states, 12)

	enabled := 0
	for _, s := range states {
		if s.Enabled {
			enabled++
			assert.Equal(t, "secure_wifi", s.ID)
		}
	}
	assert.Equal(t, 1, enabled)
}

func TestTodaysHabits(t *testing.T) {
	engine, _ := newTestEngine(t)

	_, err := engine.InitProfile(1)
	require.NoError(t, err)

	day := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	states, err := engine.TodaysHabits(1, day)
	require.NoError(t, err)
	require.Len(t, states, 6, "3 daily + 2 monthly + 1 yearly")

	frequencies := map[string]int{}
	for _, s := range states {
		frequencies[s.Frequency]++
		assert.False(t, s.Enabled)
	}
	assert.Equal(t, 3, frequencies["daily"])
	assert.Equal(t, 2, frequencies["monthly"])
	assert.Equal(t, 1, frequencies["yearly"])

	// Toggles show through in the selection
	_, err = engine.ToggleHabit(1, states[0].ID, true)
	require.NoError(t, err)

	again, err := engine.TodaysHabits(1, day)
	require.NoError(t, err)
	assert.Equal(t, states[0].ID, again[0].ID, "same date yields the same rotation")
	assert.True(t, again[0].Enabled)
}
