package mykafka

import "time"

const (
	EventUserRegistered = "user_registered"
	EventProjectCreated = "project_created"
	EventProjectDeleted = "project_deleted"
	EventMemberAdded    = "member_added"
	EventMemberRemoved  = "member_removed"
	EventTaskCreated    = "task_created"
	EventTaskUpdated    = "task_updated"
	EventTaskDeleted    = "task_deleted"
	EventCommentAdded   = "comment_added"
)

type Event struct {
	Type       string    `json:"type"`
	ActorID    uint      `json:"actor_id"`
	ProjectID  uint      `json:"project_id,omitempty"`
	TaskID     uint      `json:"task_id,omitempty"`
	UserID     uint      `json:"user_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
