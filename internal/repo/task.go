package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/taskhub/internal/models"
	"github.com/Skotchmaster/taskhub/internal/transport"
)

func (r *GormRepo) CreateTask(ctx context.Context, t *models.Task) error {
	if err := r.DB.WithContext(ctx).Omit("Tags", "Assignee", "Project").Create(t).Error; err != nil {
		return translate(err, "create task")
	}
	return nil
}

func (r *GormRepo) TaskByID(ctx context.Context, id uint) (*models.Task, error) {
	var t models.Task
	if err := r.DB.WithContext(ctx).
		Preload("Tags").
		Preload("Assignee").
		Where("id = ?", id).
		First(&t).Error; err != nil {
		return nil, translate(err, "find task")
	}
	return &t, nil
}

func (r *GormRepo) ListTasks(ctx context.Context, projectID uint, offset, limit int) (int64, []transport.TaskListItem, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Task{}).Where("project_id = ?", projectID).Count(&total).Error; err != nil {
		return 0, nil, translate(err, "count tasks")
	}

	var tasks []models.Task
	if err := r.DB.WithContext(ctx).
		Preload("Tags").
		Where("project_id = ?", projectID).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&tasks).Error; err != nil {
		return 0, nil, translate(err, "list tasks")
	}

	items := make([]transport.TaskListItem, len(tasks))
	if len(tasks) == 0 {
		return total, items, nil
	}

	ids := make([]uint, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	comments, err := r.countGrouped(ctx, &models.Comment{}, "task_id", ids)
	if err != nil {
		return 0, nil, translate(err, "count task comments")
	}

	for i, t := range tasks {
		items[i] = transport.TaskListItem{
			ID:            t.ID,
			Title:         t.Title,
			Status:        t.Status,
			Priority:      t.Priority,
			AssigneeID:    t.AssigneeID,
			DueDate:       t.DueDate,
			CreatedAt:     t.CreatedAt,
			TagsCount:     len(t.Tags),
			CommentsCount: comments[t.ID],
		}
	}
	return total, items, nil
}

func (r *GormRepo) UpdateTask(ctx context.Context, id uint, req transport.PatchTaskRequest) (*models.Task, error) {
	updates := map[string]any{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.AssigneeID != nil {
		updates["assignee_id"] = *req.AssigneeID
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Priority != nil {
		updates["priority"] = *req.Priority
	}
	if req.DueDate != nil {
		updates["due_date"] = req.DueDate.UTC()
	}

	if len(updates) > 0 {
		updates["updated_at"] = time.Now().UTC()
		if err := r.DB.WithContext(ctx).Model(&models.Task{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, translate(err, "update task")
		}
	}
	return r.TaskByID(ctx, id)
}

func (r *GormRepo) DeleteTask(ctx context.Context, id uint) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM task_tags WHERE task_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Task{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return translate(err, "delete task")
}

// FindOrCreateTag returns the tag with the given name, creating it on first use.
func (r *GormRepo) FindOrCreateTag(ctx context.Context, name string) (*models.Tag, error) {
	tag := models.Tag{Name: name}
	if err := r.DB.WithContext(ctx).Where("name = ?", name).FirstOrCreate(&tag).Error; err != nil {
		return nil, translate(err, "find or create tag")
	}
	return &tag, nil
}

func (r *GormRepo) TaskHasTag(ctx context.Context, taskID, tagID uint) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Table("task_tags").
		Where("task_id = ? AND tag_id = ?", taskID, tagID).
		Count(&n).Error
	return n > 0, translate(err, "check task tag")
}

func (r *GormRepo) AttachTag(ctx context.Context, task *models.Task, tag *models.Tag) error {
	err := r.DB.WithContext(ctx).Model(task).Association("Tags").Append(tag)
	return translate(err, "attach tag")
}
