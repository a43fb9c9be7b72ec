package progression

import (
	"sync"
	"time"

	"cyberquest-api/catalog"
	"cyberquest-api/models"
	"cyberquest-api/utils"
)

// Engine turns user actions (finishing a quiz, toggling a habit) into points,
// levels, and badge awards. Every mutating operation is a read-modify-write
// against the profile store, serialized per user id; reads for display skip
// the lock and may observe a stale snapshot.
type Engine struct {
	store   ProfileStore
	catalog *catalog.Catalog
	locks   userLocks

	// now is swapped out in tests
	now func() time.Time
}

func NewEngine(store ProfileStore, cat *catalog.Catalog) *Engine {
	return &Engine{
		store:   store,
		catalog: cat,
		now:     time.Now,
	}
}

// userLocks hands out one mutex per user id so actions for different users
// never contend
type userLocks struct {
	mu    sync.Mutex
	users map[int]*sync.Mutex
}

func (l *userLocks) forUser(userID int) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.users == nil {
		l.users = make(map[int]*sync.Mutex)
	}
	mu, ok := l.users[userID]
	if !ok {
		mu = &sync.Mutex{}
		l.users[userID] = mu
	}
	return mu
}

// InitProfile returns the user's profile, creating the default one on first
// sign-in: zeroed counters, level 1, every catalog habit off.
func (e *Engine) InitProfile(userID int) (*models.Profile, error) {
	mu := e.locks.forUser(userID)
	mu.Lock()
	defer mu.Unlock()

	profile, err := e.store.GetProfile(userID)
	if err == nil {
		return profile, nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	now := e.now()
	profile = &models.Profile{
		UserID:         userID,
		TotalPoints:    0,
		Level:          1,
		SecurityHabits: e.catalog.DefaultHabitMap(),
		Badges:         []models.AwardedBadge{},
		Preferences: models.Preferences{
			Notifications:     true,
			Theme:             "dark",
			ReminderFrequency: "weekly",
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := e.store.CreateProfile(profile); err != nil {
		return nil, err
	}

	utils.LogEngine("Profile initialized for user %d", userID)
	return profile, nil
}

// Profile reads the current profile without locking
func (e *Engine) Profile(userID int) (*models.Profile, error) {
	return e.store.GetProfile(userID)
}

// UpdatePreferences merges the supplied preference fields into the profile
func (e *Engine) UpdatePreferences(userID int, req models.PreferencesRequest) (*models.Profile, error) {
	mu := e.locks.forUser(userID)
	mu.Lock()
	defer mu.Unlock()

	profile, err := e.store.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	if req.Notifications != nil {
		profile.Preferences.Notifications = *req.Notifications
	}
	if req.Theme != nil {
		profile.Preferences.Theme = *req.Theme
	}
	if req.ReminderFrequency != nil {
		profile.Preferences.ReminderFrequency = *req.ReminderFrequency
	}
	profile.UpdatedAt = e.now()

	if err := e.store.UpdateProfile(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// Dashboard aggregates the home screen data: profile, recent quizzes, and the
// habit-based security score
func (e *Engine) Dashboard(userID int) (*models.Dashboard, error) {
	profile, err := e.store.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	recent, err := e.store.RecentQuizResults(userID, 3)
	if err != nil {
		return nil, err
	}

	return &models.Dashboard{
		Profile:       profile,
		RecentQuizzes: recent,
		SecurityScore: profile.SecurityScore(),
		Stats: models.DashboardStats{
			TotalPoints:      profile.TotalPoints,
			Level:            profile.Level,
			BadgesCount:      len(profile.Badges),
			QuizzesTaken:     profile.QuizzesTaken,
			AverageQuizScore: profile.AverageQuizScore,
		},
	}, nil
}

// QuizHistory returns the most recent completed quiz results
func (e *Engine) QuizHistory(userID, limit int) ([]models.QuizResult, error) {
	return e.store.RecentQuizResults(userID, limit)
}
