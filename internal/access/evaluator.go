package access

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/taskhub/internal/models"
)

type ProjectReader interface {
	ProjectByID(ctx context.Context, id uint) (*models.Project, error)
}

type TaskReader interface {
	TaskByID(ctx context.Context, id uint) (*models.Task, error)
}

type CommentReader interface {
	CommentByID(ctx context.Context, id uint) (*models.Comment, error)
}

type Store interface {
	ProjectReader
	TaskReader
	CommentReader
}

// Evaluator derives what a caller may do with a resource from ownership and
// membership of the parent project. Membership roles are not consulted.
type Evaluator struct {
	store Store
}

func NewEvaluator(store Store) *Evaluator {
	return &Evaluator{store: store}
}

func CanAccessProject(project *models.Project, caller *models.User) bool {
	if project == nil || caller == nil {
		return false
	}
	if project.OwnerID == caller.ID {
		return true
	}
	for _, m := range project.Members {
		if m.UserID == caller.ID {
			return true
		}
	}
	return false
}

func CanModifyProject(project *models.Project, caller *models.User) bool {
	return project != nil && caller != nil && project.OwnerID == caller.ID
}

func CanManageMembers(project *models.Project, caller *models.User) bool {
	return CanModifyProject(project, caller)
}

func (e *Evaluator) CanAccessTask(ctx context.Context, task *models.Task, caller *models.User) (bool, error) {
	project, err := e.parentProject(ctx, task)
	if err != nil {
		return false, err
	}
	return CanAccessProject(project, caller), nil
}

func (e *Evaluator) CanDeleteTask(ctx context.Context, task *models.Task, caller *models.User) (bool, error) {
	project, err := e.parentProject(ctx, task)
	if err != nil {
		return false, err
	}
	return CanModifyProject(project, caller), nil
}

func (e *Evaluator) CanAccessComment(ctx context.Context, comment *models.Comment, caller *models.User) (bool, error) {
	task, err := e.parentTask(ctx, comment)
	if err != nil {
		return false, err
	}
	return e.CanAccessTask(ctx, task, caller)
}

// CanDeleteComment allows the comment author and the owner of the project
// the comment belongs to.
func (e *Evaluator) CanDeleteComment(ctx context.Context, comment *models.Comment, caller *models.User) (bool, error) {
	if comment == nil || caller == nil {
		return false, nil
	}
	if comment.AuthorID == caller.ID {
		return true, nil
	}
	task, err := e.parentTask(ctx, comment)
	if err != nil {
		return false, err
	}
	return e.CanDeleteTask(ctx, task, caller)
}

func (e *Evaluator) parentProject(ctx context.Context, task *models.Task) (*models.Project, error) {
	if task == nil {
		return nil, fmt.Errorf("access: nil task")
	}
	project, err := e.store.ProjectByID(ctx, task.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("access: project of task %d: %w", task.ID, err)
	}
	return project, nil
}

func (e *Evaluator) parentTask(ctx context.Context, comment *models.Comment) (*models.Task, error) {
	if comment == nil {
		return nil, fmt.Errorf("access: nil comment")
	}
	task, err := e.store.TaskByID(ctx, comment.TaskID)
	if err != nil {
		return nil, fmt.Errorf("access: task of comment %d: %w", comment.ID, err)
	}
	return task, nil
}
