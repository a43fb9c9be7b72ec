package progression

import (
	"time"

	"cyberquest-api/models"
)

// Streak policy: currentStreak counts consecutive calendar days (local time)
// with at least one recorded action, where an action is a completed quiz or a
// habit toggle. Another action on the same day keeps the streak, an action on
// the following day extends it, anything else starts over at 1.
func touchActivity(profile *models.Profile, now time.Time) {
	switch {
	case profile.LastActivityAt == nil:
		profile.CurrentStreak = 1
	case sameDay(*profile.LastActivityAt, now):
		// already counted today
	case sameDay(profile.LastActivityAt.AddDate(0, 0, 1), now):
		profile.CurrentStreak++
	default:
		profile.CurrentStreak = 1
	}

	t := now
	profile.LastActivityAt = &t
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
