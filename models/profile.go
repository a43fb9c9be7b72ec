package models

import "time"

// Profile holds a user's persisted progression state. One per user, created on
// first sign-up, mutated only through the progression engine.
type Profile struct {
	UserID           int             `json:"user_id"`
	TotalPoints      int             `json:"total_points"`
	Level            int             `json:"level"`
	QuizzesTaken     int             `json:"quizzes_taken"`
	TotalQuizScore   float64         `json:"total_quiz_score"`
	AverageQuizScore float64         `json:"average_quiz_score"`
	SecurityHabits   map[string]bool `json:"security_habits"`
	Badges           []AwardedBadge  `json:"badges"`
	CurrentStreak    int             `json:"current_streak"`
	LastActivityAt   *time.Time      `json:"last_activity_at,omitempty"`
	Preferences      Preferences     `json:"preferences"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`

	// Version guards compare-and-set profile writes. Not exposed to clients.
	Version int64 `json:"-"`
}

// AwardedBadge is a badge snapshot frozen into the profile at award time
type AwardedBadge struct {
	Badge
	EarnedAt time.Time `json:"earned_at"`
}

// Preferences are client-facing settings stored on the profile document
type Preferences struct {
	Notifications     bool   `json:"notifications"`
	Theme             string `json:"theme"`
	ReminderFrequency string `json:"reminder_frequency"`
}

// PreferencesRequest supports partial preference updates
type PreferencesRequest struct {
	Notifications     *bool   `json:"notifications,omitempty"`
	Theme             *string `json:"theme,omitempty"`
	ReminderFrequency *string `json:"reminder_frequency,omitempty"`
}

// PointsTransaction is one entry in the append-only points log
type PointsTransaction struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Amount    int       `json:"amount"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

// LeaderboardEntry is one row of the points leaderboard
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	UserID      int    `json:"user_id"`
	DisplayName string `json:"display_name"`
	TotalPoints int    `json:"total_points"`
	Level       int    `json:"level"`
	Badges      int    `json:"badges"`
}

// BadgeProgress pairs a catalog badge with the user's progress toward it
type BadgeProgress struct {
	Badge
	Earned      bool       `json:"earned"`
	EarnedAt    *time.Time `json:"earned_at,omitempty"`
	Current     float64    `json:"current"`
	Requirement float64    `json:"requirement"`
}

// Dashboard aggregates the data the app's home screen needs
type Dashboard struct {
	Profile       *Profile       `json:"profile"`
	RecentQuizzes []QuizResult   `json:"recent_quizzes"`
	SecurityScore int            `json:"security_score"`
	Stats         DashboardStats `json:"stats"`
}

// DashboardStats is the headline stat block on the dashboard
type DashboardStats struct {
	TotalPoints      int     `json:"total_points"`
	Level            int     `json:"level"`
	BadgesCount      int     `json:"badges_count"`
	QuizzesTaken     int     `json:"quizzes_taken"`
	AverageQuizScore float64 `json:"average_quiz_score"`
}
