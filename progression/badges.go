package progression

import (
	"errors"
	"fmt"

	"cyberquest-api/models"
	"cyberquest-api/utils"
)

// Eligible reports whether the profile satisfies a badge's criteria.
// quizCount is the size of the quiz catalog, needed for the all_quizzes
// variant of quiz_average. perfect_quiz_score never qualifies here: perfect
// scores are awarded through an explicit check at quiz completion, not the
// general pass.
func Eligible(badge *models.Badge, profile *models.Profile, quizCount int) (bool, error) {
	req := badge.Criteria.Requirement

	switch badge.Criteria.Type {
	case models.CriteriaQuizCompletion:
		return float64(profile.QuizzesTaken) >= req, nil
	case models.CriteriaHabitsEnabled:
		return float64(profile.EnabledHabitCount()) >= req, nil
	case models.CriteriaTotalPoints:
		return float64(profile.TotalPoints) >= req, nil
	case models.CriteriaLevelReached:
		return float64(profile.Level) >= req, nil
	case models.CriteriaActivityStreak:
		return float64(profile.CurrentStreak) >= req, nil
	case models.CriteriaQuizAverage:
		if badge.Criteria.AllQuizzes {
			return profile.QuizzesTaken >= quizCount && profile.AverageQuizScore >= req, nil
		}
		return profile.AverageQuizScore >= req, nil
	case models.CriteriaPerfectQuizScore:
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownCriteria, badge.Criteria.Type)
	}
}

// EvaluateBadges awards every badge the user is newly eligible for. Point
// grants from one award can qualify the next (total_points, level_reached),
// so passes repeat on a freshly read profile until one awards nothing.
// Badges already held are never re-evaluated or revoked.
func (e *Engine) EvaluateBadges(userID int) ([]models.AwardedBadge, error) {
	mu := e.locks.forUser(userID)
	mu.Lock()
	defer mu.Unlock()

	return e.evaluateBadges(userID)
}

func (e *Engine) evaluateBadges(userID int) ([]models.AwardedBadge, error) {
	var awarded []models.AwardedBadge

	for {
		profile, err := e.store.GetProfile(userID)
		if err != nil {
			return awarded, err
		}

		awardedThisPass := 0
		for i := range e.catalog.Badges() {
			badge := &e.catalog.Badges()[i]
			if profile.HasBadge(badge.ID) {
				continue
			}

			ok, err := Eligible(badge, profile, e.catalog.QuizCount())
			if err != nil {
				if errors.Is(err, ErrUnknownCriteria) {
					// Malformed catalog entry: skip it, keep evaluating the rest
					utils.LogError("Skipping badge %s: %v", badge.ID, err)
					continue
				}
				return awarded, err
			}
			if !ok {
				continue
			}

			granted, err := e.awardBadge(userID, badge)
			if err != nil {
				return awarded, err
			}
			if granted != nil {
				awarded = append(awarded, *granted)
				awardedThisPass++
				// Re-read the profile so the next candidate sees the points
				// this award just granted
				profile, err = e.store.GetProfile(userID)
				if err != nil {
					return awarded, err
				}
			}
		}

		if awardedThisPass == 0 {
			return awarded, nil
		}
	}
}

// awardBadge appends the badge to the profile exactly once and credits its
// point reward. Returns nil when the badge is already held. The caller must
// hold the user's lock.
func (e *Engine) awardBadge(userID int, badge *models.Badge) (*models.AwardedBadge, error) {
	profile, err := e.store.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	if profile.HasBadge(badge.ID) {
		return nil, nil
	}

	award := models.AwardedBadge{
		Badge:    *badge,
		EarnedAt: e.now(),
	}
	profile.Badges = append(profile.Badges, award)
	profile.UpdatedAt = e.now()

	if err := e.store.UpdateProfile(profile); err != nil {
		return nil, err
	}

	points := badge.Points
	if points <= 0 {
		points = DefaultBadgePoints
	}
	if _, _, err := e.applyPoints(userID, points, "Earned badge: "+badge.Name); err != nil {
		return nil, err
	}

	utils.LogEngine("Badge %s awarded to user %d (+%d points)", badge.ID, userID, points)
	return &award, nil
}

// BadgeProgress reports, for every catalog badge, whether the user holds it
// and how far along they are. This backs the app's badges screen.
func (e *Engine) BadgeProgress(userID int) ([]models.BadgeProgress, error) {
	profile, err := e.store.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	badges := e.catalog.Badges()
	progress := make([]models.BadgeProgress, 0, len(badges))
	for i := range badges {
		badge := &badges[i]

		entry := models.BadgeProgress{
			Badge:       *badge,
			Requirement: badge.Criteria.Requirement,
		}
		for _, held := range profile.Badges {
			if held.ID == badge.ID {
				entry.Earned = true
				t := held.EarnedAt
				entry.EarnedAt = &t
				break
			}
		}

		switch badge.Criteria.Type {
		case models.CriteriaQuizCompletion:
			entry.Current = float64(profile.QuizzesTaken)
		case models.CriteriaHabitsEnabled:
			entry.Current = float64(profile.EnabledHabitCount())
		case models.CriteriaTotalPoints:
			entry.Current = float64(profile.TotalPoints)
		case models.CriteriaLevelReached:
			entry.Current = float64(profile.Level)
		case models.CriteriaActivityStreak:
			entry.Current = float64(profile.CurrentStreak)
		case models.CriteriaQuizAverage:
			entry.Current = profile.AverageQuizScore
		case models.CriteriaPerfectQuizScore:
			if entry.Earned {
				entry.Current = entry.Requirement
			}
		}

		progress = append(progress, entry)
	}
	return progress, nil
}
