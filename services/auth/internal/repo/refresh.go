package repo

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/internhub/services/auth/internal/models"
)

// CreateRefresh persists a new record and returns it with its
// server-generated id.
func (r *GormRepo) CreateRefresh(ctx context.Context, userID string, expiresAt time.Time) (*models.RefreshToken, error) {
	rec := models.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: expiresAt.UTC(),
	}
	if err := r.DB.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *GormRepo) FindRefreshByID(ctx context.Context, id string) (*models.RefreshToken, error) {
	var rec models.RefreshToken
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		return nil, notFound(err)
	}
	return &rec, nil
}

// DeleteRefreshByID removes one record. A missing id is not an error.
func (r *GormRepo) DeleteRefreshByID(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.RefreshToken{}).Error
}

// DeleteRefreshByUser removes every record of userID and returns how many
// were removed.
func (r *GormRepo) DeleteRefreshByUser(ctx context.Context, userID string) (int64, error) {
	res := r.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.RefreshToken{})
	return res.RowsAffected, res.Error
}
