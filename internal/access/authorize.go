package access

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/taskhub/internal/models"
)

type Kind string

const (
	KindProject Kind = "project"
	KindTask    Kind = "task"
	KindComment Kind = "comment"
)

type Capability string

const (
	CapView          Capability = "view"
	CapModify        Capability = "modify"
	CapManageMembers Capability = "manage_members"
	CapDelete        Capability = "delete"
)

type Resource struct {
	Kind Kind
	ID   uint
}

func Project(id uint) Resource { return Resource{Kind: KindProject, ID: id} }
func Task(id uint) Resource    { return Resource{Kind: KindTask, ID: id} }
func Comment(id uint) Resource { return Resource{Kind: KindComment, ID: id} }

// Authorize loads the resource and evaluates the capability against it.
// A missing resource surfaces as domain.ErrNotFound before any check runs.
// A denied capability is (false, nil); callers decide how to report it.
func (e *Evaluator) Authorize(ctx context.Context, caller *models.User, res Resource, capability Capability) (bool, error) {
	switch res.Kind {
	case KindProject:
		project, err := e.store.ProjectByID(ctx, res.ID)
		if err != nil {
			return false, err
		}
		switch capability {
		case CapView:
			return CanAccessProject(project, caller), nil
		case CapModify, CapDelete:
			return CanModifyProject(project, caller), nil
		case CapManageMembers:
			return CanManageMembers(project, caller), nil
		}

	case KindTask:
		task, err := e.store.TaskByID(ctx, res.ID)
		if err != nil {
			return false, err
		}
		switch capability {
		case CapView, CapModify:
			return e.CanAccessTask(ctx, task, caller)
		case CapDelete:
			return e.CanDeleteTask(ctx, task, caller)
		}

	case KindComment:
		comment, err := e.store.CommentByID(ctx, res.ID)
		if err != nil {
			return false, err
		}
		switch capability {
		case CapView:
			return e.CanAccessComment(ctx, comment, caller)
		case CapDelete:
			return e.CanDeleteComment(ctx, comment, caller)
		}

	default:
		return false, fmt.Errorf("access: unknown resource kind %q", res.Kind)
	}

	return false, fmt.Errorf("access: capability %q not defined for %s", capability, res.Kind)
}
