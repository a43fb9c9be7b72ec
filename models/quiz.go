package models

import "time"

// QuizResult is an immutable record of one completed quiz attempt
type QuizResult struct {
	ID             int       `json:"id"`
	UserID         int       `json:"user_id"`
	QuizID         string    `json:"quiz_id"`
	QuizName       string    `json:"quiz_name"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	Percentage     int       `json:"percentage"`
	Answers        []int     `json:"answers"`
	CompletedAt    time.Time `json:"completed_at"`
}

// QuizCompletionRequest submits a finished attempt. Answers holds the selected
// option index per question, in question order.
type QuizCompletionRequest struct {
	Answers []int `json:"answers"`
}

// QuizCompletionResponse is returned after an attempt is scored and persisted
type QuizCompletionResponse struct {
	Result        *QuizResult    `json:"result"`
	PointsAwarded int            `json:"points_awarded"`
	AwardedBadges []AwardedBadge `json:"awarded_badges"`
	Profile       *Profile       `json:"profile"`
}

// HabitToggleRequest flips one security habit on or off
type HabitToggleRequest struct {
	Enabled bool `json:"enabled"`
}

// HabitToggleResponse is returned after a toggle is applied
type HabitToggleResponse struct {
	HabitID       string         `json:"habit_id"`
	Enabled       bool           `json:"enabled"`
	PointsAwarded int            `json:"points_awarded"`
	AwardedBadges []AwardedBadge `json:"awarded_badges"`
	Profile       *Profile       `json:"profile"`
}

// HabitState pairs a catalog habit with the user's current toggle
type HabitState struct {
	Habit
	Enabled bool `json:"enabled"`
}
