package service

import (
	"context"
	"time"

	"github.com/Skotchmaster/taskhub/internal/models"
	"github.com/Skotchmaster/taskhub/internal/transport"
)

type UserDirectory interface {
	CreateUser(ctx context.Context, u *models.User) error
	FindUserByID(ctx context.Context, id uint) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type RefreshTable interface {
	SaveRefresh(ctx context.Context, userID uint, token string, expiresAt time.Time) error
	FindRefresh(ctx context.Context, token string) (*models.RefreshToken, error)
	DeleteRefresh(ctx context.Context, id uint) error
	DeleteExpiredRefresh(ctx context.Context, now time.Time) (int64, error)
}

type ProjectRepo interface {
	FindUserByID(ctx context.Context, id uint) (*models.User, error)

	CreateProject(ctx context.Context, p *models.Project) error
	ProjectByID(ctx context.Context, id uint) (*models.Project, error)
	ListProjectsForUser(ctx context.Context, userID uint) ([]transport.ProjectListItem, error)
	UpdateProject(ctx context.Context, id uint, req transport.PatchProjectRequest) (*models.Project, error)
	DeleteProject(ctx context.Context, id uint) error
	ProjectStats(ctx context.Context, id uint) (*transport.ProjectStats, error)

	AddMember(ctx context.Context, m *models.ProjectMember) error
	FindMember(ctx context.Context, projectID, userID uint) (*models.ProjectMember, error)
	RemoveMember(ctx context.Context, projectID, userID uint) error
}

type TaskRepo interface {
	FindUserByID(ctx context.Context, id uint) (*models.User, error)
	ProjectByID(ctx context.Context, id uint) (*models.Project, error)

	CreateTask(ctx context.Context, t *models.Task) error
	TaskByID(ctx context.Context, id uint) (*models.Task, error)
	ListTasks(ctx context.Context, projectID uint, offset, limit int) (int64, []transport.TaskListItem, error)
	UpdateTask(ctx context.Context, id uint, req transport.PatchTaskRequest) (*models.Task, error)
	DeleteTask(ctx context.Context, id uint) error

	CreateComment(ctx context.Context, c *models.Comment) error
	CommentByID(ctx context.Context, id uint) (*models.Comment, error)
	ListComments(ctx context.Context, taskID uint) ([]models.Comment, error)
	DeleteComment(ctx context.Context, id uint) error

	FindOrCreateTag(ctx context.Context, name string) (*models.Tag, error)
	TaskHasTag(ctx context.Context, taskID, tagID uint) (bool, error)
	AttachTag(ctx context.Context, task *models.Task, tag *models.Tag) error
}

// TaskSearch is the full-text side index of tasks.
type TaskSearch interface {
	IndexTask(ctx context.Context, doc transport.TaskDocument) error
	DeleteTask(ctx context.Context, id uint) error
	SearchTasks(ctx context.Context, projectID uint, query string, from, size int) (int64, []transport.TaskDocument, error)
}
