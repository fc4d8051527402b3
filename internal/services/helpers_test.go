package services_test

import (
	"context"
	"sync"
	"testing"

	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/auth"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/config"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/models"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/repository"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/services"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/testutil"
	"github.com/rs/zerolog"
)

type recordingEvents struct {
	mu           sync.Mutex
	reasons      map[string][]string
	disconnected map[string][]string
	closed       []string
}

func (r *recordingEvents) BroadcastRefresh(projectID, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.reasons == nil {
		r.reasons = map[string][]string{}
	}
	r.reasons[projectID] = append(r.reasons[projectID], reason)
}

func (r *recordingEvents) Disconnect(projectID, userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.disconnected == nil {
		r.disconnected = map[string][]string{}
	}
	r.disconnected[projectID] = append(r.disconnected[projectID], userID)
}

func (r *recordingEvents) CloseProject(projectID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = append(r.closed, projectID)
}

func (r *recordingEvents) Disconnected(projectID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.disconnected[projectID]...)
}

func (r *recordingEvents) Closed() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.closed...)
}

func (r *recordingEvents) For(projectID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.reasons[projectID]...)
}

type recordingNotifier struct {
	mu       sync.Mutex
	invited  []string
	removed  []string
	reassign []int64
}

func (n *recordingNotifier) MemberInvited(_ context.Context, _ models.Project, member models.User) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.invited = append(n.invited, member.ID)
	return nil
}

func (n *recordingNotifier) MemberRemoved(_ context.Context, _ models.Project, member models.User, reassigned int64) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.removed = append(n.removed, member.ID)
	n.reassign = append(n.reassign, reassigned)
	return nil
}

type fixture struct {
	store    *repository.Store
	access   *services.Access
	projects *services.Projects
	tasks    *services.Tasks
	creds    *services.Credentials
	events   *recordingEvents
	notifier *recordingNotifier
}

func newFixture(t *testing.T, invite config.InvitePolicy, taskPolicy config.TaskAccessPolicy) *fixture {
	t.Helper()

	store := testutil.NewStore(t)
	events := &recordingEvents{}
	notifier := &recordingNotifier{}

	tokens, err := auth.NewTokenIssuer("test-secret", auth.DefaultTTL)
	if err != nil {
		t.Fatalf("NewTokenIssuer() error = %v", err)
	}

	access := services.NewAccess(store, services.AccessOptions{
		InvitePolicy: invite,
		TaskPolicy:   taskPolicy,
		Notifier:     notifier,
		Events:       events,
		Logger:       zerolog.Nop(),
	})

	return &fixture{
		store:    store,
		access:   access,
		projects: services.NewProjects(store, access, events, zerolog.Nop()),
		tasks:    services.NewTasks(store, access, events, zerolog.Nop()),
		creds:    services.NewCredentials(store, tokens, zerolog.Nop()),
		events:   events,
		notifier: notifier,
	}
}

func defaultFixture(t *testing.T) *fixture {
	return newFixture(t, config.InviteOwnerOnly, config.TaskAccessMembers)
}

func strPtr(s string) *string { return &s }

func statusPtr(s models.TaskStatus) *models.TaskStatus { return &s }
