package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/taskhub/internal/models"
	"github.com/Skotchmaster/taskhub/internal/transport"
)

func (r *GormRepo) CreateProject(ctx context.Context, p *models.Project) error {
	return translate(r.DB.WithContext(ctx).Create(p).Error, "create project")
}

// ProjectByID loads the project with its membership list.
func (r *GormRepo) ProjectByID(ctx context.Context, id uint) (*models.Project, error) {
	var p models.Project
	if err := r.DB.WithContext(ctx).Preload("Members").Where("id = ?", id).First(&p).Error; err != nil {
		return nil, translate(err, "find project")
	}
	return &p, nil
}

func (r *GormRepo) ListProjectsForUser(ctx context.Context, userID uint) ([]transport.ProjectListItem, error) {
	var projects []models.Project
	memberOf := r.DB.Model(&models.ProjectMember{}).Select("project_id").Where("user_id = ?", userID)
	if err := r.DB.WithContext(ctx).
		Where("owner_id = ? OR id IN (?)", userID, memberOf).
		Order("id ASC").
		Find(&projects).Error; err != nil {
		return nil, translate(err, "list projects")
	}
	if len(projects) == 0 {
		return []transport.ProjectListItem{}, nil
	}

	ids := make([]uint, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}

	tasks, err := r.countGrouped(ctx, &models.Task{}, "project_id", ids)
	if err != nil {
		return nil, translate(err, "count project tasks")
	}
	members, err := r.countGrouped(ctx, &models.ProjectMember{}, "project_id", ids)
	if err != nil {
		return nil, translate(err, "count project members")
	}

	out := make([]transport.ProjectListItem, len(projects))
	for i, p := range projects {
		out[i] = transport.ProjectListItem{
			ID:           p.ID,
			Name:         p.Name,
			Description:  p.Description,
			OwnerID:      p.OwnerID,
			IsActive:     p.IsActive,
			CreatedAt:    p.CreatedAt,
			TasksCount:   tasks[p.ID],
			MembersCount: members[p.ID],
		}
	}
	return out, nil
}

func (r *GormRepo) UpdateProject(ctx context.Context, id uint, req transport.PatchProjectRequest) (*models.Project, error) {
	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := r.DB.WithContext(ctx).Model(&models.Project{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, translate(err, "update project")
		}
	}
	return r.ProjectByID(ctx, id)
}

// DeleteProject removes the project and everything hanging off it.
func (r *GormRepo) DeleteProject(ctx context.Context, id uint) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taskIDs := tx.Model(&models.Task{}).Select("id").Where("project_id = ?", id)
		if err := tx.Where("task_id IN (?)", taskIDs).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM task_tags WHERE task_id IN (?)", taskIDs).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Project{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return translate(err, "delete project")
}

func (r *GormRepo) ProjectStats(ctx context.Context, id uint) (*transport.ProjectStats, error) {
	var rows []struct {
		Status models.TaskStatus
		N      int64
	}
	if err := r.DB.WithContext(ctx).Model(&models.Task{}).
		Select("status, COUNT(*) AS n").
		Where("project_id = ?", id).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, translate(err, "project task stats")
	}

	var stats transport.ProjectStats
	for _, row := range rows {
		stats.TotalTasks += row.N
		switch row.Status {
		case models.StatusTodo:
			stats.TodoTasks = row.N
		case models.StatusInProgress:
			stats.InProgressTasks = row.N
		case models.StatusReview:
			stats.ReviewTasks = row.N
		case models.StatusDone:
			stats.DoneTasks = row.N
		}
	}

	if err := r.DB.WithContext(ctx).Model(&models.ProjectMember{}).
		Where("project_id = ?", id).Count(&stats.TotalMembers).Error; err != nil {
		return nil, translate(err, "project member stats")
	}

	taskIDs := r.DB.Model(&models.Task{}).Select("id").Where("project_id = ?", id)
	if err := r.DB.WithContext(ctx).Model(&models.Comment{}).
		Where("task_id IN (?)", taskIDs).Count(&stats.TotalComments).Error; err != nil {
		return nil, translate(err, "project comment stats")
	}

	return &stats, nil
}

func (r *GormRepo) AddMember(ctx context.Context, m *models.ProjectMember) error {
	if err := r.DB.WithContext(ctx).Create(m).Error; err != nil {
		return translate(err, "add project member")
	}
	return translate(r.DB.WithContext(ctx).Preload("User").First(m, m.ID).Error, "reload project member")
}

func (r *GormRepo) FindMember(ctx context.Context, projectID, userID uint) (*models.ProjectMember, error) {
	var m models.ProjectMember
	if err := r.DB.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&m).Error; err != nil {
		return nil, translate(err, "find project member")
	}
	return &m, nil
}

func (r *GormRepo) RemoveMember(ctx context.Context, projectID, userID uint) error {
	res := r.DB.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&models.ProjectMember{})
	if res.Error != nil {
		return translate(res.Error, "remove project member")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "remove project member")
	}
	return nil
}

func (r *GormRepo) countGrouped(ctx context.Context, model any, column string, ids []uint) (map[uint]int64, error) {
	var rows []struct {
		GroupKey uint
		N        int64
	}
	if err := r.DB.WithContext(ctx).Model(model).
		Select(column+" AS group_key, COUNT(*) AS n").
		Where(column+" IN ?", ids).
		Group(column).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[uint]int64, len(rows))
	for _, row := range rows {
		out[row.GroupKey] = row.N
	}
	return out, nil
}
