package progression

import (
	"fmt"

	"cyberquest-api/models"
	"cyberquest-api/utils"
)

// CompleteQuiz replays a finished attempt against the catalog quiz, persists
// the result, updates the profile's quiz counters, credits points, and runs
// the badge evaluator. The client's claimed score is ignored: the submitted
// answers are rescored server-side through the session state machine.
//
// Points: 5 per correct answer, plus a flat 25 when every answer is correct.
// A perfect run also grants the perfect_score badge directly, outside the
// general evaluation pass, if the catalog defines it and the user lacks it.
func (e *Engine) CompleteQuiz(userID int, quizID string, answers []int) (*models.QuizCompletionResponse, error) {
	quiz, ok := e.catalog.Quiz(quizID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownQuiz, quizID)
	}
	if len(answers) != len(quiz.Questions) {
		return nil, fmt.Errorf("%w: got %d answers for %d questions",
			ErrAnswerCount, len(answers), len(quiz.Questions))
	}

	session := NewSession(quiz)
	session.Start()
	for _, answer := range answers {
		if err := session.SelectAnswer(answer); err != nil {
			return nil, err
		}
		if err := session.Advance(); err != nil {
			return nil, err
		}
	}

	result, err := session.Result()
	if err != nil {
		return nil, err
	}

	mu := e.locks.forUser(userID)
	mu.Lock()
	defer mu.Unlock()

	profile, err := e.store.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	now := e.now()
	result.UserID = userID
	result.CompletedAt = now
	if err := e.store.AppendQuizResult(result); err != nil {
		return nil, err
	}

	profile.QuizzesTaken++
	profile.TotalQuizScore += float64(result.Score)
	profile.AverageQuizScore = round2(profile.TotalQuizScore / float64(profile.QuizzesTaken))
	touchActivity(profile, now)
	profile.UpdatedAt = now
	if err := e.store.UpdateProfile(profile); err != nil {
		return nil, err
	}

	points := result.Score * QuizPointsPerScore
	var awarded []models.AwardedBadge

	if result.Score == result.TotalQuestions {
		points += PerfectScoreBonus

		// Perfect scores are special-cased here; the general evaluator never
		// grants this badge
		if badge, ok := e.catalog.Badge(PerfectScoreBadgeID); ok {
			granted, err := e.awardBadge(userID, badge)
			if err != nil {
				utils.LogError("Perfect score badge check failed for user %d: %v", userID, err)
			} else if granted != nil {
				awarded = append(awarded, *granted)
			}
		}
	}

	if points > 0 {
		if _, _, err := e.applyPoints(userID, points, "Quiz completed: "+quiz.Title); err != nil {
			return nil, err
		}
	}

	newly, err := e.evaluateBadges(userID)
	if err != nil {
		utils.LogError("Badge evaluation failed after quiz for user %d: %v", userID, err)
	}
	awarded = append(awarded, newly...)

	updated, err := e.store.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	utils.LogEngine("Quiz %s completed by user %d: %d/%d (+%d points, %d badges)",
		quizID, userID, result.Score, result.TotalQuestions, points, len(awarded))

	return &models.QuizCompletionResponse{
		Result:        result,
		PointsAwarded: points,
		AwardedBadges: awarded,
		Profile:       updated,
	}, nil
}
