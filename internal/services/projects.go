package services

import (
	"context"
	"strings"

	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/apperr"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/models"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/repository"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
)

type Projects struct {
	store  *repository.Store
	access *Access
	events Broadcaster
	log    zerolog.Logger
}

func NewProjects(store *repository.Store, access *Access, events Broadcaster, log zerolog.Logger) *Projects {
	if events == nil {
		events = NoopBroadcaster{}
	}
	return &Projects{store: store, access: access, events: events, log: log}
}

// ProjectSummary is one row of the project list.
type ProjectSummary struct {
	models.Project
	Counts repository.ProjectCounts
}

// ListAccessible returns the projects userID owns or belongs to, newest first.
func (s *Projects) ListAccessible(ctx context.Context, userID string) ([]ProjectSummary, error) {
	projects, err := s.store.Projects.ListAccessible(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}

	counts, err := s.store.Projects.Counts(ctx, ids)
	if err != nil {
		return nil, err
	}

	summaries := make([]ProjectSummary, len(projects))
	for i, p := range projects {
		summaries[i] = ProjectSummary{Project: p, Counts: counts[p.ID]}
	}

	return summaries, nil
}

func (s *Projects) Create(ctx context.Context, ownerID, name string) (project *models.Project, err error) {
	ctx, span := tracer.Start(ctx, "Projects.Create")
	defer func() { endSpan(span, err) }()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("Project name is required")
	}

	project = &models.Project{Name: name, OwnerID: ownerID}
	if err = s.store.Projects.Create(ctx, project); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("project.id", project.ID))
	s.log.Info().Str("project_id", project.ID).Str("owner_id", ownerID).Msg("project created")

	return project, nil
}

// GetDetail returns the project with its tasks and roster once requesterID is
// known to be the owner or a member.
func (s *Projects) GetDetail(ctx context.Context, projectID, requesterID string) (*models.Project, error) {
	if _, err := s.access.AuthorizeRead(ctx, projectID, requesterID); err != nil {
		return nil, err
	}
	return s.store.Projects.Detail(ctx, projectID)
}

func (s *Projects) Rename(ctx context.Context, projectID, requesterID, name string) (*models.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("Project name is required")
	}

	var project *models.Project

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		p, err := tx.Projects.ByIDForUpdate(ctx, projectID)
		if err != nil {
			return err
		}

		if !s.access.IsOwner(p, requesterID) {
			return apperr.Forbidden("Only the project owner can rename the project")
		}

		if err := tx.Projects.UpdateName(ctx, p, name); err != nil {
			return err
		}

		p.Name = name
		project = p
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.events.BroadcastRefresh(project.ID, "project_updated")
	return project, nil
}

// Delete removes the project, its tasks and its roster. Owner only.
func (s *Projects) Delete(ctx context.Context, projectID, requesterID string) (err error) {
	ctx, span := tracer.Start(ctx, "Projects.Delete")
	span.SetAttributes(attribute.String("project.id", projectID))
	defer func() { endSpan(span, err) }()

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		p, err := tx.Projects.ByIDForUpdate(ctx, projectID)
		if err != nil {
			return err
		}

		if !s.access.CanDelete(p, requesterID) {
			return apperr.Forbidden("Only the project owner can delete the project")
		}

		return tx.Projects.Delete(ctx, p.ID)
	})

	if err != nil {
		return err
	}

	s.log.Info().Str("project_id", projectID).Str("deleted_by", requesterID).Msg("project deleted")
	s.events.BroadcastRefresh(projectID, "project_deleted")
	s.events.CloseProject(projectID)

	return nil
}
