package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"cyberquest-api/models"
	"cyberquest-api/utils"
)

func (db *DB) CreateUser(req models.UserRequest) (*models.User, error) {
	utils.LogDB("Creating user: %s (%s)", req.Username, req.Email)
	start := time.Now()

	if err := utils.ValidateUserRequest(&req, false); err != nil {
		return nil, err
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.LogError("Failed to hash password: %v", err)
		return nil, err
	}

	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		displayName = req.Username
	}

	result, err := db.Exec(`
		INSERT INTO users (username, email, password_hash, display_name)
		VALUES (?, ?, ?, ?)
	`, req.Username, req.Email, hashedPassword, displayName)

	if err != nil {
		duration := time.Since(start)
		utils.LogError("CreateUser failed: %v (%v)", err, duration)
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		utils.LogError("Failed to get LastInsertId for user: %v", err)
		return nil, err
	}

	utils.LogDB("User created with ID %d in %v", id, time.Since(start))
	return db.GetUserByID(int(id))
}

func (db *DB) GetUserByID(id int) (*models.User, error) {
	utils.LogDB("Getting user by ID: %d", id)

	var user models.User
	err := db.QueryRow(`
		SELECT id, username, email, display_name, created_at, updated_at
		FROM users WHERE id = ?
	`, id).Scan(&user.ID, &user.Username, &user.Email, &user.DisplayName,
		&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.LogDB("User ID %d not found", id)
		} else {
			utils.LogError("GetUserByID(%d) failed: %v", id, err)
		}
		return nil, err
	}

	return &user, nil
}

func (db *DB) GetUserByUsername(username string) (*models.User, error) {
	utils.LogDB("Getting user by username: %s", username)

	var user models.User
	err := db.QueryRow(`
		SELECT id, username, email, display_name, created_at, updated_at
		FROM users WHERE username = ?
	`, username).Scan(&user.ID, &user.Username, &user.Email, &user.DisplayName,
		&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.LogDB("User %s not found", username)
		} else {
			utils.LogError("GetUserByUsername(%s) failed: %v", username, err)
		}
		return nil, err
	}

	return &user, nil
}

// AuthenticateUser checks credentials and returns the user on success
func (db *DB) AuthenticateUser(username, password string) (*models.User, error) {
	utils.LogDB("Authenticating user: %s", username)

	var user models.User
	var passwordHash string
	err := db.QueryRow(`
		SELECT id, username, email, display_name, password_hash, created_at, updated_at
		FROM users WHERE username = ?
	`, username).Scan(&user.ID, &user.Username, &user.Email, &user.DisplayName,
		&passwordHash, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("invalid credentials")
		}
		utils.LogError("AuthenticateUser(%s) failed: %v", username, err)
		return nil, err
	}

	if !utils.CheckPassword(passwordHash, password) {
		utils.LogDB("Password mismatch for user %s", username)
		return nil, fmt.Errorf("invalid credentials")
	}

	return &user, nil
}
