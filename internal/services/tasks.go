package services

import (
	"context"
	"errors"
	"strings"

	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/apperr"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/models"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/repository"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
)

type Tasks struct {
	store  *repository.Store
	access *Access
	events Broadcaster
	log    zerolog.Logger
}

func NewTasks(store *repository.Store, access *Access, events Broadcaster, log zerolog.Logger) *Tasks {
	if events == nil {
		events = NoopBroadcaster{}
	}
	return &Tasks{store: store, access: access, events: events, log: log}
}

type NewTask struct {
	Title       string
	Description string
	Status      *models.TaskStatus
	AssigneeID  *string
}

// TaskPatch is a partial update. Nil fields stay unchanged.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *models.TaskStatus
	AssigneeID  *string
}

func (s *Tasks) Create(ctx context.Context, projectID, requesterID string, in NewTask) (task *models.Task, err error) {
	ctx, span := tracer.Start(ctx, "Tasks.Create")
	span.SetAttributes(attribute.String("project.id", projectID))
	defer func() { endSpan(span, err) }()

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperr.Validation("Title is required")
	}

	status := models.StatusTodo
	if in.Status != nil && *in.Status != "" {
		if !in.Status.Valid() {
			return nil, invalidStatus()
		}
		status = *in.Status
	}

	assigneeID := requesterID
	if in.AssigneeID != nil && *in.AssigneeID != "" {
		assigneeID = *in.AssigneeID
	}

	var id string

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		p, err := tx.Projects.ByIDForUpdate(ctx, projectID)
		if err != nil {
			return err
		}

		if err := s.access.authorizeTasks(ctx, tx, p, requesterID); err != nil {
			return err
		}

		if err := s.checkAssigneeExists(ctx, tx, p, assigneeID); err != nil {
			return err
		}

		t := &models.Task{
			ProjectID:   p.ID,
			Title:       title,
			Description: in.Description,
			Status:      status,
			AssigneeID:  &assigneeID,
		}
		if err := tx.Tasks.Create(ctx, t); err != nil {
			return err
		}

		id = t.ID
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.events.BroadcastRefresh(projectID, "task_created")
	return s.store.Tasks.ByID(ctx, id)
}

func (s *Tasks) ListByProject(ctx context.Context, projectID, requesterID string) ([]models.Task, error) {
	p, err := s.store.Projects.ByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if err := s.access.authorizeTasks(ctx, s.store, p, requesterID); err != nil {
		return nil, err
	}

	return s.store.Tasks.ListByProject(ctx, p.ID)
}

func (s *Tasks) Get(ctx context.Context, taskID, requesterID string) (*models.Task, error) {
	t, err := s.store.Tasks.ByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	p, err := s.store.Projects.ByID(ctx, t.ProjectID)
	if err != nil {
		return nil, err
	}

	if err := s.access.authorizeTasks(ctx, s.store, p, requesterID); err != nil {
		return nil, err
	}

	return t, nil
}

// Update applies patch under the project row lock, so a new assignee cannot
// slip in while that user is being removed from the project.
func (s *Tasks) Update(ctx context.Context, taskID, requesterID string, patch TaskPatch) (task *models.Task, err error) {
	ctx, span := tracer.Start(ctx, "Tasks.Update")
	span.SetAttributes(attribute.String("task.id", taskID))
	defer func() { endSpan(span, err) }()

	updates := map[string]interface{}{}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, apperr.Validation("Title cannot be empty")
		}
		updates["title"] = title
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, invalidStatus()
		}
		updates["status"] = *patch.Status
	}
	if patch.AssigneeID != nil && *patch.AssigneeID != "" {
		updates["assignee_id"] = *patch.AssigneeID
	}

	var projectID string

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		t, p, err := s.lockTask(ctx, tx, taskID)
		if err != nil {
			return err
		}

		if err := s.access.authorizeTasks(ctx, tx, p, requesterID); err != nil {
			return err
		}

		if patch.AssigneeID != nil && *patch.AssigneeID != "" {
			if err := s.checkAssigneeExists(ctx, tx, p, *patch.AssigneeID); err != nil {
				return err
			}
		}

		projectID = p.ID
		return tx.Tasks.Update(ctx, t.ID, updates)
	})

	if err != nil {
		return nil, err
	}

	if len(updates) > 0 {
		s.events.BroadcastRefresh(projectID, "task_updated")
	}

	return s.store.Tasks.ByID(ctx, taskID)
}

func (s *Tasks) Delete(ctx context.Context, taskID, requesterID string) (err error) {
	ctx, span := tracer.Start(ctx, "Tasks.Delete")
	span.SetAttributes(attribute.String("task.id", taskID))
	defer func() { endSpan(span, err) }()

	var projectID string

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		t, p, err := s.lockTask(ctx, tx, taskID)
		if err != nil {
			return err
		}

		if err := s.access.authorizeTasks(ctx, tx, p, requesterID); err != nil {
			return err
		}

		projectID = p.ID
		return tx.Tasks.Delete(ctx, t.ID)
	})

	if err != nil {
		return err
	}

	s.events.BroadcastRefresh(projectID, "task_deleted")
	return nil
}

// lockTask locks the task's project and then re-reads the task, which may
// have been deleted while waiting for the lock.
func (s *Tasks) lockTask(ctx context.Context, tx *repository.Store, taskID string) (*models.Task, *models.Project, error) {
	t, err := tx.Tasks.ByID(ctx, taskID)
	if err != nil {
		return nil, nil, err
	}

	p, err := tx.Projects.ByIDForUpdate(ctx, t.ProjectID)
	if err != nil {
		return nil, nil, err
	}

	t, err = tx.Tasks.ByID(ctx, taskID)
	if err != nil {
		return nil, nil, err
	}

	return t, p, nil
}

// checkAssigneeExists rejects unknown user ids, then applies the membership rule.
func (s *Tasks) checkAssigneeExists(ctx context.Context, tx *repository.Store, p *models.Project, assigneeID string) error {
	if _, err := tx.Users.ByID(ctx, assigneeID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.Validation("Assignee not found")
		}
		return err
	}
	return s.access.checkAssignee(ctx, tx, p, assigneeID)
}

func invalidStatus() error {
	return apperr.Validation("Status must be one of TODO, IN_PROGRESS, DONE")
}
