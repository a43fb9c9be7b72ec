package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteQuizValidation(t *testing.T) {
	engine, _ := newTestEngine(t)

	_, err := engine.InitProfile(1)
	require.NoError(t, err)

	t.Run("UnknownQuiz", func(t *testing.T) {
		_, err := engine.CompleteQuiz(1, "no_such_quiz", []int{0})
		assert.ErrorIs(t, err, ErrUnknownQuiz)
	})

	t.Run("AnswerCountMismatch", func(t *testing.T) {
		_, err := engine.CompleteQuiz(1, "phishing_basics", []int{1, 2})
		assert.ErrorIs(t, err, ErrAnswerCount)
	})

	t.Run("AnswerOutOfRange", func(t *testing.T) {
		_, err := engine.CompleteQuiz(1, "phishing_basics", []int{1, 2, 3, 0, 9})
		assert.ErrorIs(t, err, ErrInvalidAnswer)
	})

	t.Run("MissingProfile", func(t *testing.T) {
		_, err := engine.CompleteQuiz(77, "phishing_basics", []int{1, 2, 3, 0, 1})
		assert.ErrorIs(t, err, ErrProfileNotFound)
	})
}

func TestCompleteQuizRescoresServerSide(t *testing.T) {
	engine, store := newTestEngine(t)

	_, err := engine.InitProfile(1)
	require.NoError(t, err)

	// 4 of 5 correct for phishing_basics
	resp, err := engine.CompleteQuiz(1, "phishing_basics", []int{1, 2, 3, 0, 0})
	require.NoError(t, err)

	assert.Equal(t, 4, resp.Result.Score)
	assert.Equal(t, 5, resp.Result.TotalQuestions)
	assert.Equal(t, 80, resp.Result.Percentage)
	assert.Equal(t, "phishing_basics", resp.Result.QuizID)
	assert.Equal(t, "Phishing Basics", resp.Result.QuizName)

	// 4 correct at 5 points each, no perfect bonus
	assert.Equal(t, 20, resp.PointsAwarded)

	// first_quiz is the only badge a single 4/5 run earns
	require.Len(t, resp.AwardedBadges, 1)
	assert.Equal(t, "first_quiz", resp.AwardedBadges[0].ID)

	// 20 quiz points plus the 50-point first_quiz badge
	assert.Equal(t, 70, resp.Profile.TotalPoints)
	assert.Equal(t, 1, resp.Profile.QuizzesTaken)
	assert.Equal(t, 4.0, resp.Profile.AverageQuizScore)
	assert.Equal(t, 1, resp.Profile.CurrentStreak)

	results := store.quizResults[1]
	require.Len(t, results, 1)
	assert.Equal(t, 4, results[0].Score)
}

func TestCompleteQuizPerfectScore(t *testing.T) {
	engine, _ := newTestEngine(t)

	_, err := engine.InitProfile(1)
	require.NoError(t, err)

	resp, err := engine.CompleteQuiz(1, "phishing_basics", []int{1, 2, 3, 0, 1})
	require.NoError(t, err)

	assert.Equal(t, 5, resp.Result.Score)
	assert.Equal(t, 100, resp.Result.Percentage)

	// 25 for the answers plus the 25 perfect bonus
	assert.Equal(t, 50, resp.PointsAwarded)

	// The perfect run earns the perfect_score badge directly, then the
	// general pass adds first_quiz and sharp_shooter (average 5.0)
	badgeIDs := make([]string, 0, len(resp.AwardedBadges))
	for _, b := range resp.AwardedBadges {
		badgeIDs = append(badgeIDs, b.ID)
	}
	assert.Equal(t, []string{"perfect_score", "first_quiz", "sharp_shooter"}, badgeIDs)

	// 50 quiz points + 150 + 50 + 200 badge points
	assert.Equal(t, 450, resp.Profile.TotalPoints)
	assert.Equal(t, 1, resp.Profile.Level)
	assert.Equal(t, 5.0, resp.Profile.AverageQuizScore)
}

func TestCompleteQuizPerfectScoreBadgeOnlyOnce(t *testing.T) {
	engine, _ := newTestEngine(t)

	_, err := engine.InitProfile(1)
	require.NoError(t, err)

	first, err := engine.CompleteQuiz(1, "phishing_basics", []int{1, 2, 3, 0, 1})
	require.NoError(t, err)
	require.True(t, first.Profile.HasBadge("perfect_score"))

	second, err := engine.CompleteQuiz(1, "password_security", []int{1, 2, 0, 1, 3})
	require.NoError(t, err)

	for _, b := range second.AwardedBadges {
		assert.NotEqual(t, "perfect_score", b.ID, "a held badge is never re-awarded")
	}
	held := 0
	for _, b := range second.Profile.Badges {
		if b.ID == "perfect_score" {
			held++
		}
	}
	assert.Equal(t, 1, held)
}

func TestCompleteQuizAveragesAcrossAttempts(t *testing.T) {
	engine, _ := newTestEngine(t)

	_, err := engine.InitProfile(1)
	require.NoError(t, err)

	// 5/5 then 4/5 then 2/5
	_, err = engine.CompleteQuiz(1, "phishing_basics", []int{1, 2, 3, 0, 1})
	require.NoError(t, err)
	_, err = engine.CompleteQuiz(1, "password_security", []int{1, 2, 0, 1, 0})
	require.NoError(t, err)
	resp, err := engine.CompleteQuiz(1, "malware_defense", []int{1, 0, 0, 0, 0})
	require.NoError(t, err)

	assert.Equal(t, 3, resp.Profile.QuizzesTaken)
	assert.Equal(t, 11.0, resp.Profile.TotalQuizScore)
	assert.Equal(t, 3.67, resp.Profile.AverageQuizScore, "average rounds to two decimals")
}

func TestQuizHistory(t *testing.T) {
	engine, _ := newTestEngine(t)

	_, err := engine.InitProfile(1)
	require.NoError(t, err)

	_, err = engine.CompleteQuiz(1, "phishing_basics", []int{1, 2, 3, 0, 0})
	require.NoError(t, err)
	_, err = engine.CompleteQuiz(1, "safe_browsing", []int{1, 2, 0, 2, 1})
	require.NoError(t, err)

	history, err := engine.QuizHistory(1, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "safe_browsing", history[0].QuizID, "most recent first")
	assert.Equal(t, "phishing_basics", history[1].QuizID)
}
