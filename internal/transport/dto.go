package transport

import (
	"time"

	"github.com/Skotchmaster/taskhub/internal/models"
)

const TokenTypeBearer = "bearer"

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type PatchProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

type ProjectListItem struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	OwnerID      uint      `json:"owner_id"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	TasksCount   int64     `json:"tasks_count"`
	MembersCount int64     `json:"members_count"`
}

type ProjectStats struct {
	TotalTasks      int64 `json:"total_tasks"`
	TodoTasks       int64 `json:"todo_tasks"`
	InProgressTasks int64 `json:"in_progress_tasks"`
	ReviewTasks     int64 `json:"review_tasks"`
	DoneTasks       int64 `json:"done_tasks"`
	TotalMembers    int64 `json:"total_members"`
	TotalComments   int64 `json:"total_comments"`
}

type AddMemberRequest struct {
	UserID uint        `json:"user_id"`
	Role   models.Role `json:"role"`
}

type CreateTaskRequest struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	AssigneeID  *uint               `json:"assignee_id"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.TaskPriority `json:"priority"`
	DueDate     *time.Time          `json:"due_date"`
}

type PatchTaskRequest struct {
	Title       *string              `json:"title"`
	Description *string              `json:"description"`
	AssigneeID  *uint                `json:"assignee_id"`
	Status      *models.TaskStatus   `json:"status"`
	Priority    *models.TaskPriority `json:"priority"`
	DueDate     *time.Time           `json:"due_date"`
}

type TaskListItem struct {
	ID            uint                `json:"id"`
	Title         string              `json:"title"`
	Status        models.TaskStatus   `json:"status"`
	Priority      models.TaskPriority `json:"priority"`
	AssigneeID    *uint               `json:"assignee_id"`
	DueDate       *time.Time          `json:"due_date"`
	CreatedAt     time.Time           `json:"created_at"`
	TagsCount     int                 `json:"tags_count"`
	CommentsCount int64               `json:"comments_count"`
}

type CreateCommentRequest struct {
	Content string `json:"content"`
}

type AddTagRequest struct {
	TagName string `json:"tag_name"`
}

type TaskDocument struct {
	ID          uint                `json:"id"`
	ProjectID   uint                `json:"project_id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.TaskPriority `json:"priority"`
}
