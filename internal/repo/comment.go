package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/taskhub/internal/models"
)

func (r *GormRepo) CreateComment(ctx context.Context, c *models.Comment) error {
	if err := r.DB.WithContext(ctx).Omit("Author").Create(c).Error; err != nil {
		return translate(err, "create comment")
	}
	return translate(r.DB.WithContext(ctx).Preload("Author").First(c, c.ID).Error, "reload comment")
}

func (r *GormRepo) CommentByID(ctx context.Context, id uint) (*models.Comment, error) {
	var c models.Comment
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, translate(err, "find comment")
	}
	return &c, nil
}

func (r *GormRepo) ListComments(ctx context.Context, taskID uint) ([]models.Comment, error) {
	comments := []models.Comment{}
	if err := r.DB.WithContext(ctx).
		Preload("Author").
		Where("task_id = ?", taskID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error; err != nil {
		return nil, translate(err, "list comments")
	}
	return comments, nil
}

func (r *GormRepo) DeleteComment(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Comment{}, id)
	if res.Error != nil {
		return translate(res.Error, "delete comment")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "delete comment")
	}
	return nil
}
