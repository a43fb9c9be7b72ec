package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	cat, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 6, cat.QuizCount())
	assert.Len(t, cat.Badges(), 13)
	assert.Len(t, cat.Habits(), 12)
	assert.NotEmpty(t, cat.SecurityTips())
}

func TestQuizLookup(t *testing.T) {
	cat, err := Load()
	require.NoError(t, err)

	quiz, ok := cat.Quiz("phishing_basics")
	require.True(t, ok)
	assert.Equal(t, "Phishing Basics", quiz.Title)
	require.Len(t, quiz.Questions, 5)
	for i, q := range quiz.Questions {
		assert.NotEmpty(t, q.Options, "question %d has no options", i)
		assert.GreaterOrEqual(t, q.CorrectAnswer, 0)
		assert.Less(t, q.CorrectAnswer, len(q.Options), "question %d answer out of range", i)
	}

	_, ok = cat.Quiz("missing")
	assert.False(t, ok)
}

func TestQuizSummariesOmitAnswers(t *testing.T) {
	cat, err := Load()
	require.NoError(t, err)

	summaries := cat.QuizSummaries()
	require.Len(t, summaries, 6)
	for _, s := range summaries {
		assert.NotEmpty(t, s.ID)
		assert.NotEmpty(t, s.Title)
		assert.Equal(t, 5, s.QuestionCount)
	}
}

func TestBadgeCatalogWellFormed(t *testing.T) {
	cat, err := Load()
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, b := range cat.Badges() {
		assert.False(t, seen[b.ID], "duplicate badge id %s", b.ID)
		seen[b.ID] = true
		assert.NotEmpty(t, b.Criteria.Type, "badge %s has no criteria", b.ID)
		assert.Greater(t, b.Points, 0, "badge %s has no reward", b.ID)
	}

	perfect, ok := cat.Badge("perfect_score")
	require.True(t, ok)
	assert.Equal(t, "perfect_quiz_score", perfect.Criteria.Type)
}

func TestHabitPools(t *testing.T) {
	cat, err := Load()
	require.NoError(t, err)

	assert.Len(t, cat.HabitsByFrequency("daily"), 6)
	assert.Len(t, cat.HabitsByFrequency("monthly"), 4)
	assert.Len(t, cat.HabitsByFrequency("yearly"), 2)
	assert.Empty(t, cat.HabitsByFrequency("hourly"))

	habit, ok := cat.Habit("password_audit")
	require.True(t, ok)
	assert.Equal(t, "monthly", habit.Frequency)
}

func TestDefaultHabitMap(t *testing.T) {
	cat, err := Load()
	require.NoError(t, err)

	habits := cat.DefaultHabitMap()
	assert.Len(t, habits, 12)
	for id, enabled := range habits {
		assert.False(t, enabled, "habit %s should default to off", id)
	}
}

func TestTipOfTheDay(t *testing.T) {
	cat, err := Load()
	require.NoError(t, err)

	day := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	tip := cat.TipOfTheDay(day)
	assert.NotEmpty(t, tip)
	assert.Contains(t, cat.SecurityTips(), tip)

	// Same calendar day, same tip
	evening := time.Date(2025, 3, 10, 21, 0, 0, 0, time.UTC)
	assert.Equal(t, tip, cat.TipOfTheDay(evening))
}
