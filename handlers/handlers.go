package handlers

import (
	"net/http"

	"cyberquest-api/auth"
	"cyberquest-api/catalog"
	"cyberquest-api/db"
	"cyberquest-api/jobs"
	"cyberquest-api/progression"
)

// API wrapper to hold all handlers
type API struct {
	authHandlers    *AuthHandlers
	profileHandlers *ProfileHandlers
	quizHandlers    *QuizHandlers
	habitHandlers   *HabitHandlers
	publicHandlers  *PublicHandlers
}

func NewAPI(database *db.DB, engine *progression.Engine, cat *catalog.Catalog,
	sessionStore *auth.SessionStore, emailService *auth.EmailService, jobManager *jobs.JobManager) *API {
	return &API{
		authHandlers:    NewAuthHandlers(database, engine, sessionStore, emailService, jobManager),
		profileHandlers: NewProfileHandlers(engine),
		quizHandlers:    NewQuizHandlers(engine, cat),
		habitHandlers:   NewHabitHandlers(engine),
		publicHandlers:  NewPublicHandlers(database, cat),
	}
}

func NewRouter(database *db.DB, engine *progression.Engine, cat *catalog.Catalog,
	sessionStore *auth.SessionStore, emailService *auth.EmailService, jobManager *jobs.JobManager) http.Handler {
	api := NewAPI(database, engine, cat, sessionStore, emailService, jobManager)

	withAuth := authMiddleware(sessionStore)

	mux := http.NewServeMux()

	// Public endpoints
	mux.HandleFunc("/health", healthCheck)
	mux.HandleFunc("/leaderboard", api.publicHandlers.GetLeaderboard)
	mux.HandleFunc("/tips/today", api.publicHandlers.GetTipOfTheDay)

	// Auth endpoints (handle their own auth as needed)
	mux.HandleFunc("/auth/", api.authHandlers.HandleAuth)

	// Profile routes
	mux.HandleFunc("/profile", withAuth(api.profileHandlers.GetProfile))
	mux.HandleFunc("/profile/preferences", withAuth(api.profileHandlers.UpdatePreferences))
	mux.HandleFunc("/dashboard", withAuth(api.profileHandlers.GetDashboard))
	mux.HandleFunc("/badges", withAuth(api.profileHandlers.GetBadges))
	mux.HandleFunc("/points/history", withAuth(api.profileHandlers.GetPointsHistory))

	// Quiz routes
	mux.HandleFunc("/quizzes", withAuth(api.quizHandlers.ListQuizzes))
	mux.HandleFunc("/quizzes/history", withAuth(api.quizHandlers.GetHistory))
	mux.HandleFunc("/quizzes/", withAuth(api.quizHandlers.HandleQuizByID))

	// Habit routes
	mux.HandleFunc("/habits", withAuth(api.habitHandlers.ListHabits))
	mux.HandleFunc("/habits/today", withAuth(api.habitHandlers.GetTodaysHabits))
	mux.HandleFunc("/habits/", withAuth(api.habitHandlers.HandleHabitByID))

	return corsMiddleware(loggingMiddleware(mux))
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
