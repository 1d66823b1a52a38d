package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Skotchmaster/taskhub/internal/access"
	"github.com/Skotchmaster/taskhub/internal/domain"
	"github.com/Skotchmaster/taskhub/internal/logging"
	"github.com/Skotchmaster/taskhub/internal/models"
	"github.com/Skotchmaster/taskhub/internal/mykafka"
	"github.com/Skotchmaster/taskhub/internal/transport"
	"github.com/Skotchmaster/taskhub/internal/util"
)

const maxTagLen = 50

var ErrSearchDisabled = errors.New("task search is not configured")

type TaskService struct {
	Repo   TaskRepo
	Access *access.Evaluator
	Search TaskSearch
	Events mykafka.Publisher
	Now    func() time.Time
}

func (s *TaskService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return nowUTC()
}

func (s *TaskService) CreateTask(ctx context.Context, caller *models.User, projectID uint, req transport.CreateTaskRequest) (*models.Task, error) {
	if err := authorize(ctx, s.Access, caller, access.Project(projectID), access.CapView); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if err := validateName("title", title); err != nil {
		return nil, err
	}
	status := req.Status
	if status == "" {
		status = models.StatusTodo
	}
	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if err := validateStatusPriority(&status, &priority); err != nil {
		return nil, err
	}
	if req.AssigneeID != nil {
		if err := s.checkAssignee(ctx, projectID, *req.AssigneeID); err != nil {
			return nil, err
		}
	}

	task := &models.Task{
		Title:       title,
		Description: req.Description,
		ProjectID:   projectID,
		AssigneeID:  req.AssigneeID,
		Status:      status,
		Priority:    priority,
		DueDate:     req.DueDate,
	}
	if err := s.Repo.CreateTask(ctx, task); err != nil {
		return nil, err
	}

	s.index(ctx, task)
	s.emit(ctx, mykafka.EventTaskCreated, caller.ID, task)
	return s.Repo.TaskByID(ctx, task.ID)
}

func (s *TaskService) ListTasks(ctx context.Context, caller *models.User, projectID uint, page, size int) (int64, []transport.TaskListItem, error) {
	if err := authorize(ctx, s.Access, caller, access.Project(projectID), access.CapView); err != nil {
		return 0, nil, err
	}
	offset, limit := util.Calculate(page, size)
	return s.Repo.ListTasks(ctx, projectID, offset, limit)
}

func (s *TaskService) SearchTasks(ctx context.Context, caller *models.User, projectID uint, query string, page, size int) (int64, []transport.TaskDocument, error) {
	if s.Search == nil {
		return 0, nil, ErrSearchDisabled
	}
	if err := authorize(ctx, s.Access, caller, access.Project(projectID), access.CapView); err != nil {
		return 0, nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return 0, nil, fmt.Errorf("%w: empty search query", domain.ErrValidation)
	}
	from, limit := util.Calculate(page, size)
	return s.Search.SearchTasks(ctx, projectID, query, from, limit)
}

func (s *TaskService) GetTask(ctx context.Context, caller *models.User, id uint) (*models.Task, error) {
	if err := authorize(ctx, s.Access, caller, access.Task(id), access.CapView); err != nil {
		return nil, err
	}
	return s.Repo.TaskByID(ctx, id)
}

func (s *TaskService) UpdateTask(ctx context.Context, caller *models.User, id uint, req transport.PatchTaskRequest) (*models.Task, error) {
	if err := authorize(ctx, s.Access, caller, access.Task(id), access.CapModify); err != nil {
		return nil, err
	}
	current, err := s.Repo.TaskByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if err := validateName("title", title); err != nil {
			return nil, err
		}
		req.Title = &title
	}
	if err := validateStatusPriority(req.Status, req.Priority); err != nil {
		return nil, err
	}
	if req.AssigneeID != nil {
		if err := s.checkAssignee(ctx, current.ProjectID, *req.AssigneeID); err != nil {
			return nil, err
		}
	}

	task, err := s.Repo.UpdateTask(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.index(ctx, task)
	s.emit(ctx, mykafka.EventTaskUpdated, caller.ID, task)
	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, caller *models.User, id uint) error {
	if err := authorize(ctx, s.Access, caller, access.Task(id), access.CapDelete); err != nil {
		return err
	}
	task, err := s.Repo.TaskByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.DeleteTask(ctx, id); err != nil {
		return err
	}

	if s.Search != nil {
		if err := s.Search.DeleteTask(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("task_unindex_failed", "task_id", id, "error", err)
		}
	}
	s.emit(ctx, mykafka.EventTaskDeleted, caller.ID, task)
	return nil
}

func (s *TaskService) AddComment(ctx context.Context, caller *models.User, taskID uint, req transport.CreateCommentRequest) (*models.Comment, error) {
	if err := authorize(ctx, s.Access, caller, access.Task(taskID), access.CapView); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("%w: comment content is empty", domain.ErrValidation)
	}
	task, err := s.Repo.TaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	c := &models.Comment{Content: req.Content, TaskID: taskID, AuthorID: caller.ID}
	if err := s.Repo.CreateComment(ctx, c); err != nil {
		return nil, err
	}
	s.emit(ctx, mykafka.EventCommentAdded, caller.ID, task)
	return c, nil
}

func (s *TaskService) ListComments(ctx context.Context, caller *models.User, taskID uint) ([]models.Comment, error) {
	if err := authorize(ctx, s.Access, caller, access.Task(taskID), access.CapView); err != nil {
		return nil, err
	}
	return s.Repo.ListComments(ctx, taskID)
}

func (s *TaskService) DeleteComment(ctx context.Context, caller *models.User, id uint) error {
	if err := authorize(ctx, s.Access, caller, access.Comment(id), access.CapDelete); err != nil {
		return err
	}
	return s.Repo.DeleteComment(ctx, id)
}

// AddTag attaches a tag by name, creating the tag on first use.
func (s *TaskService) AddTag(ctx context.Context, caller *models.User, taskID uint, req transport.AddTagRequest) (*models.Task, error) {
	if err := authorize(ctx, s.Access, caller, access.Task(taskID), access.CapModify); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.TagName)
	if n := utf8.RuneCountInString(name); n == 0 || n > maxTagLen {
		return nil, fmt.Errorf("%w: tag name must be 1 to %d characters", domain.ErrValidation, maxTagLen)
	}

	task, err := s.Repo.TaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	tag, err := s.Repo.FindOrCreateTag(ctx, name)
	if err != nil {
		return nil, err
	}
	has, err := s.Repo.TaskHasTag(ctx, taskID, tag.ID)
	if err != nil {
		return nil, err
	}
	if has {
		return nil, fmt.Errorf("%w: task already tagged %q", domain.ErrConflict, name)
	}
	if err := s.Repo.AttachTag(ctx, task, tag); err != nil {
		return nil, err
	}
	return s.Repo.TaskByID(ctx, taskID)
}

// checkAssignee requires the assignee to exist and to own or belong to the project.
func (s *TaskService) checkAssignee(ctx context.Context, projectID, assigneeID uint) error {
	assignee, err := s.Repo.FindUserByID(ctx, assigneeID)
	if err != nil {
		return fmt.Errorf("assignee: %w", err)
	}
	project, err := s.Repo.ProjectByID(ctx, projectID)
	if err != nil {
		return err
	}
	if !access.CanAccessProject(project, assignee) {
		return fmt.Errorf("%w: assignee %d is not on the project", domain.ErrValidation, assigneeID)
	}
	return nil
}

func (s *TaskService) index(ctx context.Context, task *models.Task) {
	if s.Search == nil {
		return
	}
	doc := transport.TaskDocument{
		ID:          task.ID,
		ProjectID:   task.ProjectID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
	}
	if err := s.Search.IndexTask(ctx, doc); err != nil {
		logging.FromContext(ctx).Warn("task_index_failed", "task_id", task.ID, "error", err)
	}
}

func (s *TaskService) emit(ctx context.Context, typ string, actorID uint, task *models.Task) {
	publish(ctx, s.Events, mykafka.TopicTaskEvents, strconv.FormatUint(uint64(task.ID), 10), mykafka.Event{
		Type:       typ,
		ActorID:    actorID,
		ProjectID:  task.ProjectID,
		TaskID:     task.ID,
		OccurredAt: s.now(),
	})
}

func validateStatusPriority(status *models.TaskStatus, priority *models.TaskPriority) error {
	if status != nil && !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", domain.ErrValidation, *status)
	}
	if priority != nil && !priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", domain.ErrValidation, *priority)
	}
	return nil
}
