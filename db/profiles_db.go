package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cyberquest-api/models"
	"cyberquest-api/progression"
	"cyberquest-api/utils"
)

// GetProfile loads a progression profile. Returns
// progression.ErrProfileNotFound when the user has no profile yet.
func (db *DB) GetProfile(userID int) (*models.Profile, error) {
	utils.LogDB("Getting profile for user %d", userID)

	var p models.Profile
	var habits, badges, preferences string
	var lastActivity sql.NullTime

	err := db.QueryRow(`
		SELECT user_id, total_points, level, quizzes_taken, total_quiz_score,
		       average_quiz_score, current_streak, last_activity_at,
		       habits, badges, preferences, created_at, updated_at, version
		FROM profiles WHERE user_id = ?
	`, userID).Scan(&p.UserID, &p.TotalPoints, &p.Level, &p.QuizzesTaken,
		&p.TotalQuizScore, &p.AverageQuizScore, &p.CurrentStreak, &lastActivity,
		&habits, &badges, &preferences, &p.CreatedAt, &p.UpdatedAt, &p.Version)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.LogDB("Profile for user %d not found", userID)
			return nil, fmt.Errorf("user %d: %w", userID, progression.ErrProfileNotFound)
		}
		utils.LogError("GetProfile(%d) failed: %v", userID, err)
		return nil, fmt.Errorf("%w: %v", progression.ErrStoreUnavailable, err)
	}

	if lastActivity.Valid {
		t := lastActivity.Time
		p.LastActivityAt = &t
	}
	if err := json.Unmarshal([]byte(habits), &p.SecurityHabits); err != nil {
		return nil, fmt.Errorf("failed to decode habits for user %d: %w", userID, err)
	}
	if err := json.Unmarshal([]byte(badges), &p.Badges); err != nil {
		return nil, fmt.Errorf("failed to decode badges for user %d: %w", userID, err)
	}
	if err := json.Unmarshal([]byte(preferences), &p.Preferences); err != nil {
		return nil, fmt.Errorf("failed to decode preferences for user %d: %w", userID, err)
	}

	return &p, nil
}

// CreateProfile inserts the initial profile document for a user
func (db *DB) CreateProfile(profile *models.Profile) error {
	utils.LogDB("Creating profile for user %d", profile.UserID)
	start := time.Now()

	habits, badges, preferences, err := encodeProfileDocs(profile)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT INTO profiles (user_id, total_points, level, quizzes_taken,
			total_quiz_score, average_quiz_score, current_streak,
			last_activity_at, habits, badges, preferences,
			created_at, updated_at, version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)
	`, profile.UserID, profile.TotalPoints, profile.Level, profile.QuizzesTaken,
		profile.TotalQuizScore, profile.AverageQuizScore, profile.CurrentStreak,
		nullableTime(profile.LastActivityAt), habits, badges, preferences,
		profile.CreatedAt, profile.UpdatedAt)

	if err != nil {
		duration := time.Since(start)
		utils.LogError("CreateProfile failed for user %d: %v (%v)", profile.UserID, err, duration)
		return fmt.Errorf("%w: %v", progression.ErrStoreUnavailable, err)
	}

	profile.Version = 1
	utils.LogDB("Profile created for user %d in %v", profile.UserID, time.Since(start))
	return nil
}

// UpdateProfile writes the full profile document back, guarded by the version
// read with it. A version mismatch fails with progression.ErrStaleProfile.
func (db *DB) UpdateProfile(profile *models.Profile) error {
	utils.LogDB("Updating profile for user %d (version %d)", profile.UserID, profile.Version)
	start := time.Now()

	habits, badges, preferences, err := encodeProfileDocs(profile)
	if err != nil {
		return err
	}

	result, err := db.Exec(`
		UPDATE profiles
		SET total_points = ?, level = ?, quizzes_taken = ?, total_quiz_score = ?,
		    average_quiz_score = ?, current_streak = ?, last_activity_at = ?,
		    habits = ?, badges = ?, preferences = ?, updated_at = ?,
		    version = version + 1
		WHERE user_id = ? AND version = ?
	`, profile.TotalPoints, profile.Level, profile.QuizzesTaken, profile.TotalQuizScore,
		profile.AverageQuizScore, profile.CurrentStreak, nullableTime(profile.LastActivityAt),
		habits, badges, preferences, profile.UpdatedAt,
		profile.UserID, profile.Version)

	if err != nil {
		duration := time.Since(start)
		utils.LogError("UpdateProfile failed for user %d: %v (%v)", profile.UserID, err, duration)
		return fmt.Errorf("%w: %v", progression.ErrStoreUnavailable, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", progression.ErrStoreUnavailable, err)
	}
	if affected == 0 {
		// Either the profile is gone or someone else bumped the version
		if _, getErr := db.GetProfile(profile.UserID); getErr != nil {
			return getErr
		}
		utils.LogError("Stale profile write for user %d at version %d", profile.UserID, profile.Version)
		return fmt.Errorf("user %d at version %d: %w", profile.UserID, profile.Version, progression.ErrStaleProfile)
	}

	profile.Version++
	utils.LogDB("Profile updated for user %d in %v", profile.UserID, time.Since(start))
	return nil
}

// Leaderboard returns the top users by total points
func (db *DB) Leaderboard(limit int) ([]models.LeaderboardEntry, error) {
	utils.LogDB("Building leaderboard (top %d)", limit)

	rows, err := db.Query(`
		SELECT p.user_id, u.display_name, p.total_points, p.level,
		       json_array_length(p.badges) AS badges
		FROM profiles p
		JOIN users u ON u.id = p.user_id
		ORDER BY p.total_points DESC, p.user_id ASC
		LIMIT ?
	`, limit)
	if err != nil {
		utils.LogError("Leaderboard query failed: %v", err)
		return nil, fmt.Errorf("%w: %v", progression.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var entries []models.LeaderboardEntry
	rank := 0
	for rows.Next() {
		rank++
		entry := models.LeaderboardEntry{Rank: rank}
		if err := rows.Scan(&entry.UserID, &entry.DisplayName, &entry.TotalPoints,
			&entry.Level, &entry.Badges); err != nil {
			utils.LogError("Failed to scan leaderboard row: %v", err)
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func encodeProfileDocs(profile *models.Profile) (habits, badges, preferences string, err error) {
	h, err := json.Marshal(profile.SecurityHabits)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to encode habits: %w", err)
	}
	b, err := json.Marshal(profile.Badges)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to encode badges: %w", err)
	}
	p, err := json.Marshal(profile.Preferences)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to encode preferences: %w", err)
	}
	return string(h), string(b), string(p), nil
}

func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}
