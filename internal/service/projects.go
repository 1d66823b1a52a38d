package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Skotchmaster/taskhub/internal/access"
	"github.com/Skotchmaster/taskhub/internal/domain"
	"github.com/Skotchmaster/taskhub/internal/logging"
	"github.com/Skotchmaster/taskhub/internal/models"
	"github.com/Skotchmaster/taskhub/internal/mykafka"
	"github.com/Skotchmaster/taskhub/internal/transport"
)

const maxNameLen = 255

type ProjectService struct {
	Repo   ProjectRepo
	Access *access.Evaluator
	Events mykafka.Publisher
}

func (s *ProjectService) Create(ctx context.Context, caller *models.User, req transport.CreateProjectRequest) (*models.Project, error) {
	name := strings.TrimSpace(req.Name)
	if err := validateName("name", name); err != nil {
		return nil, err
	}

	p := &models.Project{
		Name:        name,
		Description: req.Description,
		OwnerID:     caller.ID,
		IsActive:    true,
	}
	if err := s.Repo.CreateProject(ctx, p); err != nil {
		return nil, err
	}

	s.emit(ctx, mykafka.EventProjectCreated, caller.ID, p.ID, 0)
	logging.FromContext(ctx).Info("project_created", "project_id", p.ID, "owner_id", caller.ID)
	return p, nil
}

// List returns the projects the caller owns or belongs to.
func (s *ProjectService) List(ctx context.Context, caller *models.User) ([]transport.ProjectListItem, error) {
	return s.Repo.ListProjectsForUser(ctx, caller.ID)
}

func (s *ProjectService) Get(ctx context.Context, caller *models.User, id uint) (*models.Project, error) {
	if err := authorize(ctx, s.Access, caller, access.Project(id), access.CapView); err != nil {
		return nil, err
	}
	return s.Repo.ProjectByID(ctx, id)
}

func (s *ProjectService) Update(ctx context.Context, caller *models.User, id uint, req transport.PatchProjectRequest) (*models.Project, error) {
	if err := authorize(ctx, s.Access, caller, access.Project(id), access.CapModify); err != nil {
		return nil, err
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if err := validateName("name", name); err != nil {
			return nil, err
		}
		req.Name = &name
	}
	return s.Repo.UpdateProject(ctx, id, req)
}

func (s *ProjectService) Delete(ctx context.Context, caller *models.User, id uint) error {
	if err := authorize(ctx, s.Access, caller, access.Project(id), access.CapDelete); err != nil {
		return err
	}
	if err := s.Repo.DeleteProject(ctx, id); err != nil {
		return err
	}
	s.emit(ctx, mykafka.EventProjectDeleted, caller.ID, id, 0)
	return nil
}

func (s *ProjectService) Stats(ctx context.Context, caller *models.User, id uint) (*transport.ProjectStats, error) {
	if err := authorize(ctx, s.Access, caller, access.Project(id), access.CapView); err != nil {
		return nil, err
	}
	return s.Repo.ProjectStats(ctx, id)
}

func (s *ProjectService) AddMember(ctx context.Context, caller *models.User, projectID uint, req transport.AddMemberRequest) (*models.ProjectMember, error) {
	if err := authorize(ctx, s.Access, caller, access.Project(projectID), access.CapManageMembers); err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = models.RoleMember
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, role)
	}

	if _, err := s.Repo.FindUserByID(ctx, req.UserID); err != nil {
		return nil, err
	}
	if _, err := s.Repo.FindMember(ctx, projectID, req.UserID); err == nil {
		return nil, fmt.Errorf("%w: user %d is already a member", domain.ErrConflict, req.UserID)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	m := &models.ProjectMember{ProjectID: projectID, UserID: req.UserID, Role: role}
	if err := s.Repo.AddMember(ctx, m); err != nil {
		return nil, err
	}
	s.emit(ctx, mykafka.EventMemberAdded, caller.ID, projectID, req.UserID)
	return m, nil
}

func (s *ProjectService) RemoveMember(ctx context.Context, caller *models.User, projectID, userID uint) error {
	if err := authorize(ctx, s.Access, caller, access.Project(projectID), access.CapManageMembers); err != nil {
		return err
	}
	if err := s.Repo.RemoveMember(ctx, projectID, userID); err != nil {
		return err
	}
	s.emit(ctx, mykafka.EventMemberRemoved, caller.ID, projectID, userID)
	return nil
}

func (s *ProjectService) emit(ctx context.Context, typ string, actorID, projectID, userID uint) {
	publish(ctx, s.Events, mykafka.TopicProjectEvents, strconv.FormatUint(uint64(projectID), 10), mykafka.Event{
		Type:       typ,
		ActorID:    actorID,
		ProjectID:  projectID,
		UserID:     userID,
		OccurredAt: nowUTC(),
	})
}

func validateName(field, v string) error {
	if n := utf8.RuneCountInString(v); n == 0 || n > maxNameLen {
		return fmt.Errorf("%w: %s must be 1 to %d characters", domain.ErrValidation, field, maxNameLen)
	}
	return nil
}
