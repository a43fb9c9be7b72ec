package progression

import "cyberquest-api/models"

// ProfileStore is the keyed document store behind the engine. Implementations
// must return ErrProfileNotFound (possibly wrapped) for missing profiles and
// wrap transport failures in ErrStoreUnavailable.
//
// UpdateProfile is a full-document write guarded by Profile.Version: the write
// must fail with ErrStaleProfile when the stored version no longer matches.
// The quiz result and points logs are append-only.
type ProfileStore interface {
	GetProfile(userID int) (*models.Profile, error)
	CreateProfile(profile *models.Profile) error
	UpdateProfile(profile *models.Profile) error

	AppendQuizResult(result *models.QuizResult) error
	RecentQuizResults(userID, limit int) ([]models.QuizResult, error)

	AppendPointsTransaction(tx *models.PointsTransaction) error
	RecentPointsTransactions(userID, limit int) ([]models.PointsTransaction, error)
}
