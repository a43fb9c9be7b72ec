package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"cyberquest-api/catalog"
	"cyberquest-api/db"
	"cyberquest-api/utils"
)

type PublicHandlers struct {
	db      *db.DB
	catalog *catalog.Catalog
}

func NewPublicHandlers(database *db.DB, cat *catalog.Catalog) *PublicHandlers {
	return &PublicHandlers{db: database, catalog: cat}
}

func (ph *PublicHandlers) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := parseLimit(r, 10)

	entries, err := ph.db.Leaderboard(limit)
	if err != nil {
		utils.LogError("Failed to load leaderboard: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"leaderboard": entries,
	})
}

func (ph *PublicHandlers) GetTipOfTheDay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	now := time.Now()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"tip":  ph.catalog.TipOfTheDay(now),
		"date": now.Format("2006-01-02"),
	})
}
