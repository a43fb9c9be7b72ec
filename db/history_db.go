package db

import (
	"encoding/json"
	"fmt"
	"time"

	"cyberquest-api/models"
	"cyberquest-api/progression"
	"cyberquest-api/utils"
)

// AppendQuizResult inserts one completed attempt into the per-user history
func (db *DB) AppendQuizResult(result *models.QuizResult) error {
	utils.LogDB("Recording quiz result: user %d, quiz %s, %d/%d",
		result.UserID, result.QuizID, result.Score, result.TotalQuestions)
	start := time.Now()

	answers, err := json.Marshal(result.Answers)
	if err != nil {
		return fmt.Errorf("failed to encode answers: %w", err)
	}

	res, err := db.Exec(`
		INSERT INTO quiz_results (user_id, quiz_id, quiz_name, score,
			total_questions, percentage, answers, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, result.UserID, result.QuizID, result.QuizName, result.Score,
		result.TotalQuestions, result.Percentage, string(answers), result.CompletedAt)

	if err != nil {
		duration := time.Since(start)
		utils.LogError("AppendQuizResult failed: %v (%v)", err, duration)
		return fmt.Errorf("%w: %v", progression.ErrStoreUnavailable, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		utils.LogError("Failed to get quiz result LastInsertId: %v", err)
		return err
	}

	result.ID = int(id)
	utils.LogDB("Quiz result recorded with ID %d in %v", id, time.Since(start))
	return nil
}

// RecentQuizResults returns the user's most recent attempts, newest first
func (db *DB) RecentQuizResults(userID, limit int) ([]models.QuizResult, error) {
	utils.LogDB("Getting quiz history for user %d (limit %d)", userID, limit)

	rows, err := db.Query(`
		SELECT id, user_id, quiz_id, quiz_name, score, total_questions,
		       percentage, answers, completed_at
		FROM quiz_results
		WHERE user_id = ?
		ORDER BY completed_at DESC, id DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		utils.LogError("RecentQuizResults(%d) failed: %v", userID, err)
		return nil, fmt.Errorf("%w: %v", progression.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	results := []models.QuizResult{}
	for rows.Next() {
		var r models.QuizResult
		var answers string
		if err := rows.Scan(&r.ID, &r.UserID, &r.QuizID, &r.QuizName, &r.Score,
			&r.TotalQuestions, &r.Percentage, &answers, &r.CompletedAt); err != nil {
			utils.LogError("Failed to scan quiz result: %v", err)
			return nil, err
		}
		if err := json.Unmarshal([]byte(answers), &r.Answers); err != nil {
			return nil, fmt.Errorf("failed to decode answers for result %d: %w", r.ID, err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// AppendPointsTransaction inserts one entry into the append-only points log
func (db *DB) AppendPointsTransaction(tx *models.PointsTransaction) error {
	utils.LogDB("Logging points transaction: user %d, %+d (%s)", tx.UserID, tx.Amount, tx.Reason)

	res, err := db.Exec(`
		INSERT INTO points_history (user_id, amount, reason, created_at)
		VALUES (?, ?, ?, ?)
	`, tx.UserID, tx.Amount, tx.Reason, tx.CreatedAt)
	if err != nil {
		utils.LogError("AppendPointsTransaction failed: %v", err)
		return fmt.Errorf("%w: %v", progression.ErrStoreUnavailable, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	tx.ID = int(id)
	return nil
}

// RecentPointsTransactions returns the newest entries of the user's points log
func (db *DB) RecentPointsTransactions(userID, limit int) ([]models.PointsTransaction, error) {
	utils.LogDB("Getting points history for user %d (limit %d)", userID, limit)

	rows, err := db.Query(`
		SELECT id, user_id, amount, reason, created_at
		FROM points_history
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		utils.LogError("RecentPointsTransactions(%d) failed: %v", userID, err)
		return nil, fmt.Errorf("%w: %v", progression.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	transactions := []models.PointsTransaction{}
	for rows.Next() {
		var t models.PointsTransaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Amount, &t.Reason, &t.CreatedAt); err != nil {
			utils.LogError("Failed to scan points transaction: %v", err)
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}
