package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"cyberquest-api/auth"
	"cyberquest-api/db"
	"cyberquest-api/jobs"
	"cyberquest-api/models"
	"cyberquest-api/progression"
	"cyberquest-api/utils"
)

type AuthHandlers struct {
	db           *db.DB
	engine       *progression.Engine
	sessionStore *auth.SessionStore
	emailService *auth.EmailService
	jobManager   *jobs.JobManager
}

func NewAuthHandlers(database *db.DB, engine *progression.Engine, sessionStore *auth.SessionStore,
	emailService *auth.EmailService, jobManager *jobs.JobManager) *AuthHandlers {
	return &AuthHandlers{
		db:           database,
		engine:       engine,
		sessionStore: sessionStore,
		emailService: emailService,
		jobManager:   jobManager,
	}
}

func (ah *AuthHandlers) HandleAuth(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/auth/")

	switch {
	case path == "register" && r.Method == http.MethodPost:
		ah.register(w, r)
	case path == "login" && r.Method == http.MethodPost:
		ah.login(w, r)
	case path == "logout" && r.Method == http.MethodPost:
		ah.logout(w, r)
	case path == "me" && r.Method == http.MethodGet:
		ah.getCurrentUserInfo(w, r)
	default:
		http.Error(w, "Not found", http.StatusNotFound)
	}
}

func (ah *AuthHandlers) register(w http.ResponseWriter, r *http.Request) {
	utils.LogHTTP("POST /auth/register")

	var req models.UserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.LogHTTP("Invalid JSON in register request: %v", err)
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	user, err := ah.db.CreateUser(req)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			if strings.Contains(err.Error(), "username") {
				http.Error(w, "Username already exists", http.StatusConflict)
			} else if strings.Contains(err.Error(), "email") {
				http.Error(w, "Email already exists", http.StatusConflict)
			} else {
				http.Error(w, "User already exists", http.StatusConflict)
			}
		} else {
			utils.LogError("Failed to create user: %v", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
		return
	}

	// Initialize the progression profile alongside the account
	profile, err := ah.engine.InitProfile(user.ID)
	if err != nil {
		utils.LogError("Failed to initialize profile for user %d: %v", user.ID, err)
		http.Error(w, "Failed to initialize profile", http.StatusInternalServerError)
		return
	}

	// Welcome email goes through the job queue when available
	subject, body := ah.emailService.BuildWelcomeEmail(user)
	if err := ah.jobManager.QueueWelcomeEmail(user.Email, subject, body, user.ID); err != nil {
		utils.LogDebug("Welcome email not queued (%v), sending inline", err)
		go func() {
			if err := ah.emailService.SendEmail(user.Email, subject, body); err != nil {
				utils.LogError("Failed to send welcome email to %s: %v", user.Email, err)
			}
		}()
	}

	session := ah.sessionStore.CreateSession(user)

	utils.LogHTTP("User registered successfully: %s (ID: %d)", user.Username, user.ID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"user":    user,
		"profile": profile,
		"session": session,
		"message": "Registration successful",
	})
}

func (ah *AuthHandlers) login(w http.ResponseWriter, r *http.Request) {
	utils.LogHTTP("POST /auth/login")

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.LogHTTP("Invalid JSON in login request: %v", err)
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	user, err := ah.db.AuthenticateUser(req.Username, req.Password)
	if err != nil {
		utils.LogHTTP("Login failed for user: %s", req.Username)
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	// Backfills the profile for accounts created before the engine existed
	profile, err := ah.engine.InitProfile(user.ID)
	if err != nil {
		utils.LogError("Failed to load profile for user %d: %v", user.ID, err)
		http.Error(w, "Failed to load profile", http.StatusInternalServerError)
		return
	}

	session := ah.sessionStore.CreateSession(user)

	utils.LogHTTP("User logged in successfully: %s (ID: %d)", user.Username, user.ID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"user":    user,
		"profile": profile,
		"session": session,
		"message": "Login successful",
	})
}

func (ah *AuthHandlers) logout(w http.ResponseWriter, r *http.Request) {
	utils.LogHTTP("POST /auth/logout")

	sessionID := extractSessionFromRequest(r)
	if sessionID != "" {
		ah.sessionStore.DeleteSession(sessionID)
		utils.LogHTTP("Session %s destroyed", sessionID[:8]+"...")
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Logout successful",
	})
}

func (ah *AuthHandlers) getCurrentUserInfo(w http.ResponseWriter, r *http.Request) {
	session := getSessionFromRequest(r, ah.sessionStore)
	if session == nil {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	user, err := ah.db.GetUserByID(session.UserID)
	if err != nil {
		utils.LogError("Failed to get user %d: %v", session.UserID, err)
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"user":    user,
		"session": session,
	})
}
