package progression

import (
	"fmt"
	"math"

	"cyberquest-api/models"
	"cyberquest-api/utils"
)

// Point economy constants
const (
	PointsPerLevel      = 500
	QuizPointsPerScore  = 5
	PerfectScoreBonus   = 25
	HabitEnablePoints   = 10
	DefaultBadgePoints  = 100
	PerfectScoreBadgeID = "perfect_score"
)

// LevelForPoints derives the level from a points total. Level is never stored
// independently: it is recomputed from totalPoints on every write.
func LevelForPoints(totalPoints int) int {
	return totalPoints/PointsPerLevel + 1
}

// round2 keeps averages at two decimal places, matching what clients display
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// ApplyPoints credits amount points to the user for the given reason,
// recomputes the level, and appends a transaction to the points log. The
// returned profile reflects the new totals.
func (e *Engine) ApplyPoints(userID, amount int, reason string) (*models.Profile, *models.PointsTransaction, error) {
	if amount <= 0 {
		return nil, nil, fmt.Errorf("%w: %d", ErrInvalidAmount, amount)
	}

	mu := e.locks.forUser(userID)
	mu.Lock()
	defer mu.Unlock()

	return e.applyPoints(userID, amount, reason)
}

// applyPoints is the unlocked ledger step shared by every award path. The
// caller must hold the user's lock.
func (e *Engine) applyPoints(userID, amount int, reason string) (*models.Profile, *models.PointsTransaction, error) {
	if amount <= 0 {
		return nil, nil, fmt.Errorf("%w: %d", ErrInvalidAmount, amount)
	}

	profile, err := e.store.GetProfile(userID)
	if err != nil {
		return nil, nil, err
	}

	profile.TotalPoints += amount
	profile.Level = LevelForPoints(profile.TotalPoints)
	profile.UpdatedAt = e.now()

	if err := e.store.UpdateProfile(profile); err != nil {
		return nil, nil, err
	}

	tx := &models.PointsTransaction{
		UserID:    userID,
		Amount:    amount,
		Reason:    reason,
		CreatedAt: e.now(),
	}
	if err := e.store.AppendPointsTransaction(tx); err != nil {
		// The ledger write is best-effort in the source system too: the
		// profile totals are already committed.
		utils.LogError("Failed to log points transaction for user %d: %v", userID, err)
	}

	utils.LogEngine("Added %d points to user %d for: %s (total: %d, level: %d)",
		amount, userID, reason, profile.TotalPoints, profile.Level)
	return profile, tx, nil
}

// PointsHistory returns the most recent entries of the user's points log
func (e *Engine) PointsHistory(userID, limit int) ([]models.PointsTransaction, error) {
	return e.store.RecentPointsTransactions(userID, limit)
}
