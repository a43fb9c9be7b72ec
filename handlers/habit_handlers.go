package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"cyberquest-api/models"
	"cyberquest-api/progression"
	"cyberquest-api/utils"
)

type HabitHandlers struct {
	engine *progression.Engine
}

func NewHabitHandlers(engine *progression.Engine) *HabitHandlers {
	return &HabitHandlers{engine: engine}
}

func (hh *HabitHandlers) ListHabits(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session := getSessionFromContext(r.Context())
	states, err := hh.engine.HabitStates(session.UserID)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"habits": states,
	})
}

func (hh *HabitHandlers) GetTodaysHabits(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session := getSessionFromContext(r.Context())
	states, err := hh.engine.TodaysHabits(session.UserID, time.Now())
	if err != nil {
		writeEngineError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"habits": states,
	})
}

// HandleHabitByID routes /habits/{id} for toggling
func (hh *HabitHandlers) HandleHabitByID(w http.ResponseWriter, r *http.Request) {
	habitID := strings.TrimPrefix(r.URL.Path, "/habits/")
	if habitID == "" || strings.Contains(habitID, "/") {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session := getSessionFromContext(r.Context())

	var req models.HabitToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.LogHTTP("Invalid JSON in habit toggle request: %v", err)
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	utils.LogHTTP("Habit toggle for user %d, habit %s -> %v", session.UserID, habitID, req.Enabled)
	response, err := hh.engine.ToggleHabit(session.UserID, habitID, req.Enabled)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
