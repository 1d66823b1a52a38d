package models

import (
	"time"
)

type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
	RoleViewer Role = "viewer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember, RoleViewer:
		return true
	}
	return false
}

type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusReview     TaskStatus = "review"
	StatusDone       TaskStatus = "done"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusReview, StatusDone:
		return true
	}
	return false
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"   json:"id"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Username     string    `gorm:"size:100;uniqueIndex;not null" json:"username"`
	FullName     string    `gorm:"size:255"                   json:"full_name,omitempty"`
	PasswordHash string    `gorm:"not null"                   json:"-"`
	IsActive     bool      `gorm:"not null"                   json:"is_active"`
	CreatedAt    time.Time `                                  json:"created_at"`
	UpdatedAt    time.Time `                                  json:"updated_at"`
}

// RefreshToken holds at most one row per user; Token is the sha256 hex of the issued token.
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"                                     json:"id"`
	Token     string    `gorm:"size:64;uniqueIndex;not null"                   json:"-"`
	UserID    uint      `gorm:"uniqueIndex;not null"                           json:"user_id"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE"                    json:"-"`
	ExpiresAt time.Time `gorm:"not null;index"                                 json:"expires_at"`
	CreatedAt time.Time `                                                      json:"created_at"`
}

type Project struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"                  json:"id"`
	Name        string          `gorm:"size:255;not null"                         json:"name"`
	Description string          `                                                 json:"description,omitempty"`
	OwnerID     uint            `gorm:"index;not null"                            json:"owner_id"`
	Owner       *User           `gorm:"constraint:OnDelete:CASCADE"               json:"-"`
	IsActive    bool            `gorm:"not null"                                  json:"is_active"`
	Members     []ProjectMember `gorm:"constraint:OnDelete:CASCADE"               json:"members,omitempty"`
	CreatedAt   time.Time       `                                                 json:"created_at"`
	UpdatedAt   time.Time       `                                                 json:"updated_at"`
}

type ProjectMember struct {
	ID        uint      `gorm:"primaryKey"                                         json:"id"`
	ProjectID uint      `gorm:"not null;uniqueIndex:idx_project_member"            json:"project_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_project_member;index"      json:"user_id"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE"                        json:"user,omitempty"`
	Role      Role      `gorm:"size:20;not null;default:member"                    json:"role"`
	JoinedAt  time.Time `gorm:"autoCreateTime"                                     json:"joined_at"`
}

type Task struct {
	ID          uint         `gorm:"primaryKey;autoIncrement"                   json:"id"`
	Title       string       `gorm:"size:255;not null"                          json:"title"`
	Description string       `                                                  json:"description,omitempty"`
	ProjectID   uint         `gorm:"index;not null"                             json:"project_id"`
	Project     *Project     `gorm:"constraint:OnDelete:CASCADE"                json:"-"`
	AssigneeID  *uint        `gorm:"index"                                      json:"assignee_id"`
	Assignee    *User        `gorm:"constraint:OnDelete:SET NULL"               json:"assignee,omitempty"`
	Status      TaskStatus   `gorm:"size:20;not null;default:todo"              json:"status"`
	Priority    TaskPriority `gorm:"size:20;not null;default:medium"            json:"priority"`
	DueDate     *time.Time   `                                                  json:"due_date"`
	Tags        []Tag        `gorm:"many2many:task_tags"                       json:"tags"`
	Comments    []Comment    `gorm:"constraint:OnDelete:CASCADE"                json:"-"`
	CreatedAt   time.Time    `                                                  json:"created_at"`
	UpdatedAt   time.Time    `                                                  json:"updated_at"`
}

type Comment struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"                        json:"id"`
	Content   string    `gorm:"not null"                                        json:"content"`
	TaskID    uint      `gorm:"index;not null"                                  json:"task_id"`
	AuthorID  uint      `gorm:"index;not null"                                  json:"author_id"`
	Author    *User     `gorm:"constraint:OnDelete:CASCADE"                     json:"author,omitempty"`
	CreatedAt time.Time `                                                       json:"created_at"`
	UpdatedAt time.Time `                                                       json:"updated_at"`
}

type Tag struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name      string    `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Color     string    `gorm:"size:7;default:#808080"    json:"color"`
	CreatedAt time.Time `                                 json:"created_at"`
}

func All() []any {
	return []any{&User{}, &RefreshToken{}, &Project{}, &ProjectMember{}, &Task{}, &Comment{}, &Tag{}}
}
