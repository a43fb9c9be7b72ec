package models

// Badge criteria types understood by the badge evaluator
const (
	CriteriaQuizCompletion   = "quiz_completion"
	CriteriaHabitsEnabled    = "habits_enabled"
	CriteriaTotalPoints      = "total_points"
	CriteriaLevelReached     = "level_reached"
	CriteriaActivityStreak   = "activity_streak"
	CriteriaQuizAverage      = "quiz_average"
	CriteriaPerfectQuizScore = "perfect_quiz_score"
)

// Habit rotation frequencies
const (
	FrequencyDaily   = "daily"
	FrequencyMonthly = "monthly"
	FrequencyYearly  = "yearly"
)

// Badge is a catalog achievement definition. Catalog entries are read-only.
type Badge struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Icon        string        `json:"icon"`
	Points      int           `json:"points"`
	Category    string        `json:"category"`
	Criteria    BadgeCriteria `json:"criteria"`
}

// BadgeCriteria describes when a badge becomes eligible
type BadgeCriteria struct {
	Type        string  `json:"type"`
	Requirement float64 `json:"requirement"`
	AllQuizzes  bool    `json:"all_quizzes,omitempty"`
}

// Habit is a recurring security practice shown on a rotating schedule
type Habit struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Frequency   string `json:"frequency"`
	Category    string `json:"category"`
}

// Quiz is a catalog quiz definition
type Quiz struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Difficulty  string         `json:"difficulty"`
	Questions   []QuizQuestion `json:"questions"`
}

// QuizQuestion is a single multiple-choice question
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Explanation   string   `json:"explanation,omitempty"`
}

// QuizSummary is the list view of a quiz, without questions or answers
type QuizSummary struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	Difficulty    string `json:"difficulty"`
	QuestionCount int    `json:"question_count"`
}

// Summary strips question content for catalog listings
func (q *Quiz) Summary() QuizSummary {
	return QuizSummary{
		ID:            q.ID,
		Title:         q.Title,
		Description:   q.Description,
		Category:      q.Category,
		Difficulty:    q.Difficulty,
		QuestionCount: len(q.Questions),
	}
}
