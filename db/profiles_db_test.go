package db

import (
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyberquest-api/models"
	"cyberquest-api/progression"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	return &DB{mockDB}, mock
}

func profileColumns() []string {
	return []string{"user_id", "total_points", "level", "quizzes_taken",
		"total_quiz_score", "average_quiz_score", "current_streak",
		"last_activity_at", "habits", "badges", "preferences",
		"created_at", "updated_at", "version"}
}

func TestGetProfile(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows(profileColumns()).
			AddRow(1, 450, 1, 2, 9.0, 4.5, 3, now,
				`{"check_links":true,"lock_devices":false}`,
				`[{"id":"first_quiz","name":"First Steps","points":50,"earned_at":"2025-03-09T10:00:00Z"}]`,
				`{"notifications":true,"theme":"dark","reminder_frequency":"weekly"}`,
				now, now, 4)

		mock.ExpectQuery("SELECT user_id, total_points").
			WithArgs(1).
			WillReturnRows(rows)

		profile, err := db.GetProfile(1)
		require.NoError(t, err)

		assert.Equal(t, 1, profile.UserID)
		assert.Equal(t, 450, profile.TotalPoints)
		assert.Equal(t, 4.5, profile.AverageQuizScore)
		assert.Equal(t, int64(4), profile.Version)
		assert.True(t, profile.SecurityHabits["check_links"])
		assert.False(t, profile.SecurityHabits["lock_devices"])
		require.Len(t, profile.Badges, 1)
		assert.Equal(t, "first_quiz", profile.Badges[0].ID)
		assert.Equal(t, "dark", profile.Preferences.Theme)
		require.NotNil(t, profile.LastActivityAt)
		assert.Equal(t, now, *profile.LastActivityAt)
	})

	t.Run("NullLastActivity", func(t *testing.T) {
		rows := sqlmock.NewRows(profileColumns()).
			AddRow(2, 0, 1, 0, 0.0, 0.0, 0, nil, `{}`, `[]`, `{}`, now, now, 1)

		mock.ExpectQuery("SELECT user_id, total_points").
			WithArgs(2).
			WillReturnRows(rows)

		profile, err := db.GetProfile(2)
		require.NoError(t, err)
		assert.Nil(t, profile.LastActivityAt)
		assert.Empty(t, profile.Badges)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT user_id, total_points").
			WithArgs(99).
			WillReturnRows(sqlmock.NewRows(profileColumns()))

		_, err := db.GetProfile(99)
		assert.ErrorIs(t, err, progression.ErrProfileNotFound)
	})

	t.Run("QueryFailure", func(t *testing.T) {
		mock.ExpectQuery("SELECT user_id, total_points").
			WithArgs(1).
			WillReturnError(fmt.Errorf("disk I/O error"))

		_, err := db.GetProfile(1)
		assert.ErrorIs(t, err, progression.ErrStoreUnavailable)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func testProfile() *models.Profile {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	return &models.Profile{
		UserID:         1,
		TotalPoints:    100,
		Level:          1,
		SecurityHabits: map[string]bool{"check_links": true},
		Badges:         []models.AwardedBadge{},
		CreatedAt:      now,
		UpdatedAt:      now,
		Version:        2,
	}
}

func TestCreateProfile(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec("INSERT INTO profiles").
		WillReturnResult(sqlmock.NewResult(0, 1))

	profile := testProfile()
	profile.Version = 0
	err := db.CreateProfile(profile)
	require.NoError(t, err)
	assert.Equal(t, int64(1), profile.Version, "fresh profiles start at version 1")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProfile(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)

		mock.ExpectExec("UPDATE profiles").
			WillReturnResult(sqlmock.NewResult(0, 1))

		profile := testProfile()
		err := db.UpdateProfile(profile)
		require.NoError(t, err)
		assert.Equal(t, int64(3), profile.Version, "successful write bumps the version")

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("StaleVersion", func(t *testing.T) {
		db, mock := newMockDB(t)
		now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

		mock.ExpectExec("UPDATE profiles").
			WillReturnResult(sqlmock.NewResult(0, 0))

		// The profile still exists at a newer version, so the write was stale
		rows := sqlmock.NewRows(profileColumns()).
			AddRow(1, 200, 1, 0, 0.0, 0.0, 0, nil, `{}`, `[]`, `{}`, now, now, 5)
		mock.ExpectQuery("SELECT user_id, total_points").
			WithArgs(1).
			WillReturnRows(rows)

		err := db.UpdateProfile(testProfile())
		assert.ErrorIs(t, err, progression.ErrStaleProfile)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ProfileGone", func(t *testing.T) {
		db, mock := newMockDB(t)

		mock.ExpectExec("UPDATE profiles").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT user_id, total_points").
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows(profileColumns()))

		err := db.UpdateProfile(testProfile())
		assert.ErrorIs(t, err, progression.ErrProfileNotFound)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ExecFailure", func(t *testing.T) {
		db, mock := newMockDB(t)

		mock.ExpectExec("UPDATE profiles").
			WillReturnError(fmt.Errorf("database is locked"))

		err := db.UpdateProfile(testProfile())
		assert.ErrorIs(t, err, progression.ErrStoreUnavailable)

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLeaderboard(t *testing.T) {
	db, mock := newMockDB(t)

	rows := sqlmock.NewRows([]string{"user_id", "display_name", "total_points", "level", "badges"}).
		AddRow(3, "alice", 1200, 3, 5).
		AddRow(1, "bob", 800, 2, 3).
		AddRow(2, "carol", 800, 2, 1)

	mock.ExpectQuery("SELECT p.user_id, u.display_name").
		WithArgs(10).
		WillReturnRows(rows)

	entries, err := db.Leaderboard(10)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "alice", entries[0].DisplayName)
	assert.Equal(t, 1200, entries[0].TotalPoints)
	assert.Equal(t, 5, entries[0].Badges)
	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, 3, entries[2].Rank, "ties still get distinct ranks")

	require.NoError(t, mock.ExpectationsWereMet())
}
