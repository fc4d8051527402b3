package services

import (
	"context"
	"errors"

	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/apperr"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/config"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/models"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/repository"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
)

// Access decides who may read or change a project and its tasks, and owns the
// roster mutations (invite, remove) together with the task reassignment that
// removal requires.
type Access struct {
	store        *repository.Store
	invitePolicy config.InvitePolicy
	taskPolicy   config.TaskAccessPolicy
	notifier     Notifier
	events       Broadcaster
	log          zerolog.Logger
}

type AccessOptions struct {
	InvitePolicy config.InvitePolicy
	TaskPolicy   config.TaskAccessPolicy
	Notifier     Notifier
	Events       Broadcaster
	Logger       zerolog.Logger
}

func NewAccess(store *repository.Store, opts AccessOptions) *Access {
	a := &Access{
		store:        store,
		invitePolicy: opts.InvitePolicy,
		taskPolicy:   opts.TaskPolicy,
		notifier:     opts.Notifier,
		events:       opts.Events,
		log:          opts.Logger,
	}

	if a.invitePolicy == "" {
		a.invitePolicy = config.InviteOwnerOnly
	}
	if a.taskPolicy == "" {
		a.taskPolicy = config.TaskAccessMembers
	}
	if a.notifier == nil {
		a.notifier = NoopNotifier{}
	}
	if a.events == nil {
		a.events = NoopBroadcaster{}
	}

	return a
}

// CanRead reports whether userID is the owner of project or holds a roster row.
func (a *Access) CanRead(ctx context.Context, project *models.Project, userID string) (bool, error) {
	return canRead(ctx, a.store, project, userID)
}

func (a *Access) IsOwner(project *models.Project, userID string) bool {
	return project.IsOwner(userID)
}

// CanDelete is owner only, regardless of policy.
func (a *Access) CanDelete(project *models.Project, userID string) bool {
	return project.IsOwner(userID)
}

func (a *Access) CanInvite(ctx context.Context, project *models.Project, userID string) (bool, error) {
	return allowed(a.authorizeInvite(ctx, a.store, project, userID))
}

func (a *Access) CanMutateTasks(ctx context.Context, project *models.Project, userID string) (bool, error) {
	return allowed(a.authorizeTasks(ctx, a.store, project, userID))
}

func allowed(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, apperr.ErrForbidden):
		return false, nil
	}
	return false, err
}

// AuthorizeRead loads the project and fails with NotFound or Forbidden.
func (a *Access) AuthorizeRead(ctx context.Context, projectID, userID string) (*models.Project, error) {
	project, err := a.store.Projects.ByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	ok, err := canRead(ctx, a.store, project, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.Forbidden("Access denied")
	}

	return project, nil
}

func canRead(ctx context.Context, st *repository.Store, project *models.Project, userID string) (bool, error) {
	if project.IsOwner(userID) {
		return true, nil
	}
	return st.Members.Exists(ctx, project.ID, userID)
}

// authorizeTasks gates reading and mutating the tasks of project.
func (a *Access) authorizeTasks(ctx context.Context, st *repository.Store, project *models.Project, userID string) error {
	if a.taskPolicy == config.TaskAccessAnyone {
		return nil
	}

	ok, err := canRead(ctx, st, project, userID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Forbidden("Only project members can manage its tasks")
	}
	return nil
}

// checkAssignee rejects assignees who are neither owner nor member, so no
// write path can create the orphaned state that RemoveMember cleans up.
func (a *Access) checkAssignee(ctx context.Context, st *repository.Store, project *models.Project, assigneeID string) error {
	if a.taskPolicy == config.TaskAccessAnyone {
		return nil
	}

	ok, err := canRead(ctx, st, project, assigneeID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Validation("Assignee must be the project owner or a member")
	}
	return nil
}

func (a *Access) authorizeInvite(ctx context.Context, st *repository.Store, project *models.Project, inviterID string) error {
	switch a.invitePolicy {
	case config.InviteAnyone:
		return nil
	case config.InviteMembers:
		ok, err := canRead(ctx, st, project, inviterID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.Forbidden("Only project members can invite")
		}
		return nil
	default:
		if !project.IsOwner(inviterID) {
			return apperr.Forbidden("Only the project owner can invite members")
		}
		return nil
	}
}

// authorizeRemoval follows the invite policy. A member may always remove
// themself.
func (a *Access) authorizeRemoval(ctx context.Context, st *repository.Store, project *models.Project, requesterID, userID string) error {
	if requesterID == userID {
		ok, err := canRead(ctx, st, project, requesterID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.Forbidden("You are not a member of this project")
		}
		return nil
	}

	switch a.invitePolicy {
	case config.InviteAnyone:
		return nil
	case config.InviteMembers:
		ok, err := canRead(ctx, st, project, requesterID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.Forbidden("Only project members can remove members")
		}
		return nil
	default:
		if !project.IsOwner(requesterID) {
			return apperr.Forbidden("Only the project owner can remove members")
		}
		return nil
	}
}

// Invite adds the user registered under email to the project roster.
func (a *Access) Invite(ctx context.Context, projectID, inviterID, email string) (invitee *models.User, err error) {
	ctx, span := tracer.Start(ctx, "Access.Invite")
	span.SetAttributes(attribute.String("project.id", projectID))
	defer func() { endSpan(span, err) }()

	email = normalizeEmail(email)
	if email == "" {
		return nil, apperr.Validation("Email is required")
	}

	var project *models.Project

	err = a.store.Transaction(ctx, func(tx *repository.Store) error {
		p, err := tx.Projects.ByIDForUpdate(ctx, projectID)
		if err != nil {
			return err
		}

		if err := a.authorizeInvite(ctx, tx, p, inviterID); err != nil {
			return err
		}

		u, err := NewDirectory(tx).FindByEmail(ctx, email)
		if err != nil {
			return err
		}

		if p.IsOwner(u.ID) {
			return apperr.Conflict("User is the project owner")
		}

		exists, err := tx.Members.Exists(ctx, p.ID, u.ID)
		if err != nil {
			return err
		}
		if exists {
			return apperr.Conflict("User already a member")
		}

		if _, err := tx.Members.Add(ctx, p.ID, u.ID); err != nil {
			if errors.Is(err, apperr.ErrConflict) {
				return apperr.Conflict("User already a member")
			}
			return err
		}

		project, invitee = p, u
		return nil
	})

	if err != nil {
		return nil, err
	}

	membershipChanges.WithLabelValues("invite").Inc()
	a.log.Info().
		Str("project_id", project.ID).
		Str("user_id", invitee.ID).
		Str("invited_by", inviterID).
		Msg("member invited")

	a.events.BroadcastRefresh(project.ID, "member_invited")

	if nerr := a.notifier.MemberInvited(ctx, *project, *invitee); nerr != nil {
		a.log.Warn().Err(nerr).Str("project_id", project.ID).Msg("failed to send invite notification")
	}

	return invitee, nil
}

// RemoveMember hands every task of the project assigned to userID back to the
// owner and then deletes the roster row, both in one transaction that holds
// the project row lock. Running it again is a no-op. It returns how many tasks
// were reassigned.
func (a *Access) RemoveMember(ctx context.Context, projectID, requesterID, userID string) (reassigned int64, err error) {
	ctx, span := tracer.Start(ctx, "Access.RemoveMember")
	span.SetAttributes(
		attribute.String("project.id", projectID),
		attribute.String("member.id", userID),
	)
	defer func() { endSpan(span, err) }()

	if userID == "" {
		return 0, apperr.Validation("userId is required")
	}

	var (
		project *models.Project
		removed int64
	)

	err = a.store.Transaction(ctx, func(tx *repository.Store) error {
		p, err := tx.Projects.ByIDForUpdate(ctx, projectID)
		if err != nil {
			return err
		}

		if err := a.authorizeRemoval(ctx, tx, p, requesterID, userID); err != nil {
			return err
		}

		// The owner has no roster row and already owns their tasks.
		if p.IsOwner(userID) {
			project = p
			return nil
		}

		n, err := tx.Tasks.Reassign(ctx, p.ID, userID, p.OwnerID)
		if err != nil {
			return err
		}

		m, err := tx.Members.Remove(ctx, p.ID, userID)
		if err != nil {
			return err
		}

		project, reassigned, removed = p, n, m
		return nil
	})

	if err != nil {
		return 0, err
	}

	span.SetAttributes(attribute.Int64("tasks.reassigned", reassigned))

	if reassigned > 0 {
		tasksReassigned.Add(float64(reassigned))
	}

	if removed == 0 && reassigned == 0 {
		return 0, nil
	}

	if removed > 0 {
		membershipChanges.WithLabelValues("remove").Inc()
	}

	a.log.Info().
		Str("project_id", project.ID).
		Str("user_id", userID).
		Str("removed_by", requesterID).
		Int64("reassigned", reassigned).
		Msg("member removed")

	a.events.BroadcastRefresh(project.ID, "member_removed")

	if removed > 0 {
		a.events.Disconnect(project.ID, userID)

		member := models.User{BaseModel: models.BaseModel{ID: userID}}
		if u, lerr := a.store.Users.ByID(ctx, userID); lerr == nil {
			member = *u
		}
		if nerr := a.notifier.MemberRemoved(ctx, *project, member, reassigned); nerr != nil {
			a.log.Warn().Err(nerr).Str("project_id", project.ID).Msg("failed to send removal notification")
		}
	}

	return reassigned, nil
}
