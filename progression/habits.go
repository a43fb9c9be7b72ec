package progression

import (
	"fmt"
	"time"

	"cyberquest-api/catalog"
	"cyberquest-api/models"
	"cyberquest-api/utils"
)

// ToggleHabit flips a security habit on or off. Turning a habit on grants 10
// points each time it transitions from off to on; turning it off grants
// nothing and revokes nothing. Every toggle re-runs the badge evaluator.
func (e *Engine) ToggleHabit(userID int, habitID string, enabled bool) (*models.HabitToggleResponse, error) {
	habit, ok := e.catalog.Habit(habitID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownHabit, habitID)
	}

	mu := e.locks.forUser(userID)
	mu.Lock()
	defer mu.Unlock()

	profile, err := e.store.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	wasEnabled := profile.SecurityHabits[habitID]
	profile.SecurityHabits[habitID] = enabled
	now := e.now()
	touchActivity(profile, now)
	profile.UpdatedAt = now
	if err := e.store.UpdateProfile(profile); err != nil {
		return nil, err
	}

	points := 0
	if enabled && !wasEnabled {
		points = HabitEnablePoints
		if _, _, err := e.applyPoints(userID, points, "Enabled security habit: "+habit.Name); err != nil {
			return nil, err
		}
	}

	awarded, err := e.evaluateBadges(userID)
	if err != nil {
		utils.LogError("Badge evaluation failed after habit toggle for user %d: %v", userID, err)
	}

	updated, err := e.store.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	utils.LogEngine("Habit %s set to %t for user %d (+%d points, %d badges)",
		habitID, enabled, userID, points, len(awarded))

	return &models.HabitToggleResponse{
		HabitID:       habitID,
		Enabled:       enabled,
		PointsAwarded: points,
		AwardedBadges: awarded,
		Profile:       updated,
	}, nil
}

// HabitStates pairs every catalog habit with the user's current toggle
func (e *Engine) HabitStates(userID int) ([]models.HabitState, error) {
	profile, err := e.store.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	habits := e.catalog.Habits()
	states := make([]models.HabitState, 0, len(habits))
	for _, h := range habits {
		states = append(states, models.HabitState{
			Habit:   h,
			Enabled: profile.SecurityHabits[h.ID],
		})
	}
	return states, nil
}

// TodaysHabits returns the deterministic rotation for the given date (3 daily
// + 2 monthly + 1 yearly by default) with the user's toggle state attached
func (e *Engine) TodaysHabits(userID int, t time.Time) ([]models.HabitState, error) {
	profile, err := e.store.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	selection := e.catalog.TodaysHabits(t, catalog.DefaultRotationCounts)
	states := make([]models.HabitState, 0, len(selection))
	for _, h := range selection {
		states = append(states, models.HabitState{
			Habit:   h,
			Enabled: profile.SecurityHabits[h.ID],
		})
	}
	return states, nil
}
