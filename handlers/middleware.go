package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"cyberquest-api/auth"
	"cyberquest-api/models"
	"cyberquest-api/progression"
	"cyberquest-api/utils"
)

// Context keys for storing user session
type contextKey string

const sessionContextKey contextKey = "session"

// extractSessionFromRequest gets session ID from Authorization header or cookie
func extractSessionFromRequest(r *http.Request) string {
	header := r.Header.Get("Authorization")

	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}

	cookie, err := r.Cookie("session_id")
	if err != nil {
		return ""
	}
	return cookie.Value
}

// authMiddleware validates session and adds user context
func authMiddleware(sessionStore *auth.SessionStore) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			sessionID := extractSessionFromRequest(r)
			if sessionID == "" {
				http.Error(w, "Missing session token", http.StatusUnauthorized)
				return
			}

			session, exists := sessionStore.GetSession(sessionID)
			if !exists {
				http.Error(w, "Invalid or expired session", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
	}
}

// getSessionFromContext extracts session from request context
func getSessionFromContext(ctx context.Context) *models.Session {
	session, ok := ctx.Value(sessionContextKey).(*models.Session)
	if !ok {
		return nil
	}
	return session
}

// getSessionFromRequest resolves the session directly, for handlers outside
// the auth middleware
func getSessionFromRequest(r *http.Request, sessionStore *auth.SessionStore) *models.Session {
	sessionID := extractSessionFromRequest(r)
	if sessionID == "" {
		return nil
	}
	session, exists := sessionStore.GetSession(sessionID)
	if !exists {
		return nil
	}
	return session
}

// writeEngineError maps the engine's typed errors onto HTTP status codes
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, progression.ErrProfileNotFound):
		http.Error(w, "Profile not found", http.StatusNotFound)
	case errors.Is(err, progression.ErrUnknownQuiz),
		errors.Is(err, progression.ErrUnknownHabit):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, progression.ErrInvalidAmount),
		errors.Is(err, progression.ErrNoAnswerSelected),
		errors.Is(err, progression.ErrInvalidAnswer),
		errors.Is(err, progression.ErrAnswerCount):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, progression.ErrStoreUnavailable):
		http.Error(w, "Storage temporarily unavailable", http.StatusServiceUnavailable)
	default:
		utils.LogError("Unhandled engine error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)
		utils.LogHTTP("%s %s %d %v", r.Method, r.URL.Path, wrapped.statusCode, duration)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
