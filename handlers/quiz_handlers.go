package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"cyberquest-api/catalog"
	"cyberquest-api/models"
	"cyberquest-api/progression"
	"cyberquest-api/utils"
)

type QuizHandlers struct {
	engine  *progression.Engine
	catalog *catalog.Catalog
}

func NewQuizHandlers(engine *progression.Engine, cat *catalog.Catalog) *QuizHandlers {
	return &QuizHandlers{engine: engine, catalog: cat}
}

func (qh *QuizHandlers) ListQuizzes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"quizzes": qh.catalog.QuizSummaries(),
	})
}

// HandleQuizByID routes /quizzes/{id} and /quizzes/{id}/complete
func (qh *QuizHandlers) HandleQuizByID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/quizzes/")
	parts := strings.Split(path, "/")

	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		qh.getQuiz(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "complete" && r.Method == http.MethodPost:
		qh.completeQuiz(w, r, parts[0])
	default:
		http.Error(w, "Not found", http.StatusNotFound)
	}
}

func (qh *QuizHandlers) getQuiz(w http.ResponseWriter, r *http.Request, quizID string) {
	quiz, ok := qh.catalog.Quiz(quizID)
	if !ok {
		http.Error(w, "Quiz not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(quiz)
}

func (qh *QuizHandlers) completeQuiz(w http.ResponseWriter, r *http.Request, quizID string) {
	session := getSessionFromContext(r.Context())

	var req models.QuizCompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.LogHTTP("Invalid JSON in quiz completion request: %v", err)
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	utils.LogHTTP("Quiz completion for user %d, quiz %s", session.UserID, quizID)
	response, err := qh.engine.CompleteQuiz(session.UserID, quizID, req.Answers)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(response)
}

func (qh *QuizHandlers) GetHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session := getSessionFromContext(r.Context())
	limit := parseLimit(r, 10)

	history, err := qh.engine.QuizHistory(session.UserID, limit)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"results": history,
	})
}
