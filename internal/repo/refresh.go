package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/taskhub/internal/models"
)

// SaveRefresh replaces every refresh token of the user with a single new row.
// The unique user_id index plus the upsert keeps concurrent saves at one row.
func (r *GormRepo) SaveRefresh(ctx context.Context, userID uint, token string, expiresAt time.Time) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}

		rec := models.RefreshToken{
			Token:     token,
			UserID:    userID,
			ExpiresAt: expiresAt.UTC(),
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"token", "expires_at", "created_at"}),
		}).Create(&rec).Error
	})
	return translate(err, "save refresh token")
}

func (r *GormRepo) FindRefresh(ctx context.Context, token string) (*models.RefreshToken, error) {
	var rec models.RefreshToken
	if err := r.DB.WithContext(ctx).Where("token = ?", token).First(&rec).Error; err != nil {
		return nil, translate(err, "find refresh token")
	}
	return &rec, nil
}

func (r *GormRepo) DeleteRefresh(ctx context.Context, id uint) error {
	return translate(r.DB.WithContext(ctx).Delete(&models.RefreshToken{}, id).Error, "delete refresh token")
}

func (r *GormRepo) DeleteExpiredRefresh(ctx context.Context, now time.Time) (int64, error) {
	res := r.DB.WithContext(ctx).Where("expires_at <= ?", now.UTC()).Delete(&models.RefreshToken{})
	if res.Error != nil {
		return 0, translate(res.Error, "delete expired refresh tokens")
	}
	return res.RowsAffected, nil
}
