package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/apperr"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/config"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/testutil"
)

// Owner O, project P, member M with task T assigned to M.
func TestRemoveMemberReassignsTasksToOwner(t *testing.T) {
	f := defaultFixture(t)
	ctx := context.Background()

	owner := testutil.SeedUser(t, f.store, "owner")
	member := testutil.SeedUser(t, f.store, "member")
	p := testutil.SeedProject(t, f.store, owner, "P")
	testutil.SeedMember(t, f.store, p, member)
	task := testutil.SeedTask(t, f.store, p, "T", member)
	untouched := testutil.SeedTask(t, f.store, p, "owner task", owner)

	reassigned, err := f.access.RemoveMember(ctx, p.ID, owner.ID, member.ID)
	if err != nil {
		t.Fatalf("RemoveMember() error = %v", err)
	}
	if reassigned != 1 {
		t.Errorf("RemoveMember() reassigned = %d, want 1", reassigned)
	}

	got, err := f.store.Tasks.ByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("load task: %v", err)
	}
	if got.AssigneeID == nil || *got.AssigneeID != owner.ID {
		t.Errorf("task assignee = %v, want owner", got.AssigneeID)
	}

	if ok, _ := f.store.Members.Exists(ctx, p.ID, member.ID); ok {
		t.Error("membership row still present")
	}
	tasks, _ := f.store.Tasks.ListByProject(ctx, p.ID)
	for _, tk := range tasks {
		if tk.AssigneeID != nil && *tk.AssigneeID == member.ID {
			t.Errorf("task %q still assigned to the removed member", tk.Title)
		}
	}

	other, _ := f.store.Tasks.ByID(ctx, untouched.ID)
	if *other.AssigneeID != owner.ID {
		t.Error("owner's own task changed")
	}

	if _, err := f.projects.GetDetail(ctx, p.ID, member.ID); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("removed member GetDetail() error = %v, want ErrForbidden", err)
	}

	if len(f.notifier.removed) != 1 || f.notifier.reassign[0] != 1 {
		t.Errorf("notifier removed = %v reassign = %v", f.notifier.removed, f.notifier.reassign)
	}
	if reasons := f.events.For(p.ID); len(reasons) != 1 || reasons[0] != "member_removed" {
		t.Errorf("broadcasts = %v", reasons)
	}
	if dropped := f.events.Disconnected(p.ID); len(dropped) != 1 || dropped[0] != member.ID {
		t.Errorf("disconnected = %v, want the removed member", dropped)
	}
}

func TestRemoveMemberIsIdempotent(t *testing.T) {
	f := defaultFixture(t)
	ctx := context.Background()

	owner := testutil.SeedUser(t, f.store, "owner")
	member := testutil.SeedUser(t, f.store, "member")
	p := testutil.SeedProject(t, f.store, owner, "P")
	testutil.SeedMember(t, f.store, p, member)
	testutil.SeedTask(t, f.store, p, "T", member)

	if _, err := f.access.RemoveMember(ctx, p.ID, owner.ID, member.ID); err != nil {
		t.Fatalf("first RemoveMember() error = %v", err)
	}

	reassigned, err := f.access.RemoveMember(ctx, p.ID, owner.ID, member.ID)
	if err != nil {
		t.Fatalf("second RemoveMember() error = %v", err)
	}
	if reassigned != 0 {
		t.Errorf("second RemoveMember() reassigned = %d, want 0", reassigned)
	}

	if len(f.notifier.removed) != 1 {
		t.Errorf("notifier called %d times, want 1", len(f.notifier.removed))
	}
}

func TestRemoveMemberOfOwnerIsNoop(t *testing.T) {
	f := defaultFixture(t)
	ctx := context.Background()

	owner := testutil.SeedUser(t, f.store, "owner")
	p := testutil.SeedProject(t, f.store, owner, "P")
	testutil.SeedTask(t, f.store, p, "T", owner)

	reassigned, err := f.access.RemoveMember(ctx, p.ID, owner.ID, owner.ID)
	if err != nil {
		t.Fatalf("RemoveMember(owner) error = %v", err)
	}
	if reassigned != 0 {
		t.Errorf("reassigned = %d, want 0", reassigned)
	}
	if _, err := f.projects.GetDetail(ctx, p.ID, owner.ID); err != nil {
		t.Errorf("owner lost access: %v", err)
	}
}

func TestRemoveMemberAuthorization(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		policy  config.InvitePolicy
		as      string
		wantErr error
	}{
		{"owner removes", config.InviteOwnerOnly, "owner", nil},
		{"member removes self", config.InviteOwnerOnly, "member", nil},
		{"other member denied", config.InviteOwnerOnly, "peer", apperr.ErrForbidden},
		{"stranger denied", config.InviteOwnerOnly, "stranger", apperr.ErrForbidden},
		{"member policy lets peer remove", config.InviteMembers, "peer", nil},
		{"member policy denies stranger", config.InviteMembers, "stranger", apperr.ErrForbidden},
		{"any policy lets stranger remove", config.InviteAnyone, "stranger", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.policy, config.TaskAccessMembers)

			users := map[string]string{}
			for _, name := range []string{"owner", "member", "peer", "stranger"} {
				users[name] = testutil.SeedUser(t, f.store, name).ID
			}
			owner, _ := f.store.Users.ByID(ctx, users["owner"])
			p := testutil.SeedProject(t, f.store, owner, "P")
			for _, name := range []string{"member", "peer"} {
				u, _ := f.store.Users.ByID(ctx, users[name])
				testutil.SeedMember(t, f.store, p, u)
			}

			_, err := f.access.RemoveMember(ctx, p.ID, users[tt.as], users["member"])
			if tt.wantErr == nil && err != nil {
				t.Fatalf("RemoveMember() error = %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("RemoveMember() error = %v, want %v", err, tt.wantErr)
			}

			stillMember, _ := f.store.Members.Exists(ctx, p.ID, users["member"])
			if stillMember != (tt.wantErr != nil) {
				t.Errorf("member still present = %v", stillMember)
			}
		})
	}
}

func TestRemoveMemberSelfRequiresAccess(t *testing.T) {
	for _, policy := range []config.InvitePolicy{config.InviteOwnerOnly, config.InviteMembers, config.InviteAnyone} {
		t.Run(string(policy), func(t *testing.T) {
			f := newFixture(t, policy, config.TaskAccessAnyone)
			ctx := context.Background()

			owner := testutil.SeedUser(t, f.store, "owner")
			stranger := testutil.SeedUser(t, f.store, "stranger")
			p := testutil.SeedProject(t, f.store, owner, "P")
			task := testutil.SeedTask(t, f.store, p, "T", stranger)

			_, err := f.access.RemoveMember(ctx, p.ID, stranger.ID, stranger.ID)
			if !errors.Is(err, apperr.ErrForbidden) {
				t.Fatalf("RemoveMember(self, stranger) error = %v, want ErrForbidden", err)
			}

			got, _ := f.store.Tasks.ByID(ctx, task.ID)
			if got.AssigneeID == nil || *got.AssigneeID != stranger.ID {
				t.Errorf("task reassigned by a stranger's self-removal: %v", got.AssigneeID)
			}
			if len(f.events.Disconnected(p.ID)) != 0 || len(f.events.For(p.ID)) != 0 {
				t.Error("denied removal published events")
			}
		})
	}
}

func TestRemoveMemberUnknownProject(t *testing.T) {
	f := defaultFixture(t)
	owner := testutil.SeedUser(t, f.store, "owner")

	_, err := f.access.RemoveMember(context.Background(), "missing", owner.ID, owner.ID)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("RemoveMember() error = %v, want ErrNotFound", err)
	}
}

func TestInvite(t *testing.T) {
	f := defaultFixture(t)
	ctx := context.Background()

	owner := testutil.SeedUser(t, f.store, "owner")
	member := testutil.SeedUser(t, f.store, "member")
	p := testutil.SeedProject(t, f.store, owner, "P")

	invitee, err := f.access.Invite(ctx, p.ID, owner.ID, "  Member@Example.com ")
	if err != nil {
		t.Fatalf("Invite() error = %v", err)
	}
	if invitee.ID != member.ID {
		t.Errorf("Invite() returned %s, want %s", invitee.ID, member.ID)
	}

	if _, err := f.projects.GetDetail(ctx, p.ID, member.ID); err != nil {
		t.Errorf("invited member GetDetail() error = %v", err)
	}

	if _, err := f.access.Invite(ctx, p.ID, owner.ID, member.Email); !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("second Invite() error = %v, want ErrConflict", err)
	}
	if _, err := f.access.Invite(ctx, p.ID, owner.ID, owner.Email); !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("Invite(owner) error = %v, want ErrConflict", err)
	}
	if _, err := f.access.Invite(ctx, p.ID, owner.ID, "nobody@example.com"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Invite(unknown email) error = %v, want ErrNotFound", err)
	}
	if _, err := f.access.Invite(ctx, "missing", owner.ID, member.Email); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Invite(unknown project) error = %v, want ErrNotFound", err)
	}
	if _, err := f.access.Invite(ctx, p.ID, owner.ID, " "); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("Invite(blank) error = %v, want ErrValidation", err)
	}

	if len(f.notifier.invited) != 1 {
		t.Errorf("notifier invited = %v, want one entry", f.notifier.invited)
	}
}

func TestInvitePolicies(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		policy      config.InvitePolicy
		memberMay   bool
		strangerMay bool
	}{
		{config.InviteOwnerOnly, false, false},
		{config.InviteMembers, true, false},
		{config.InviteAnyone, true, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			f := newFixture(t, tt.policy, config.TaskAccessMembers)

			owner := testutil.SeedUser(t, f.store, "owner")
			member := testutil.SeedUser(t, f.store, "member")
			stranger := testutil.SeedUser(t, f.store, "stranger")
			testutil.SeedUser(t, f.store, "alpha")
			testutil.SeedUser(t, f.store, "beta")
			p := testutil.SeedProject(t, f.store, owner, "P")
			testutil.SeedMember(t, f.store, p, member)

			check := func(inviter, email string, want bool) {
				t.Helper()
				_, err := f.access.Invite(ctx, p.ID, inviter, email)
				if want && err != nil {
					t.Errorf("Invite(%s) error = %v", email, err)
				}
				if !want && !errors.Is(err, apperr.ErrForbidden) {
					t.Errorf("Invite(%s) error = %v, want ErrForbidden", email, err)
				}
			}

			check(member.ID, "alpha@example.com", tt.memberMay)
			check(stranger.ID, "beta@example.com", tt.strangerMay)

			ok, err := f.access.CanInvite(ctx, p, owner.ID)
			if err != nil || !ok {
				t.Errorf("CanInvite(owner) = %v, %v", ok, err)
			}
		})
	}
}

func TestAccessPredicates(t *testing.T) {
	f := defaultFixture(t)
	ctx := context.Background()

	owner := testutil.SeedUser(t, f.store, "owner")
	member := testutil.SeedUser(t, f.store, "member")
	stranger := testutil.SeedUser(t, f.store, "stranger")
	p := testutil.SeedProject(t, f.store, owner, "P")
	testutil.SeedMember(t, f.store, p, member)

	for _, tt := range []struct {
		user   string
		read   bool
		del    bool
		mutate bool
	}{
		{owner.ID, true, true, true},
		{member.ID, true, false, true},
		{stranger.ID, false, false, false},
	} {
		if got, _ := f.access.CanRead(ctx, p, tt.user); got != tt.read {
			t.Errorf("CanRead(%s) = %v", tt.user, got)
		}
		if got := f.access.CanDelete(p, tt.user); got != tt.del {
			t.Errorf("CanDelete(%s) = %v", tt.user, got)
		}
		if got, _ := f.access.CanMutateTasks(ctx, p, tt.user); got != tt.mutate {
			t.Errorf("CanMutateTasks(%s) = %v", tt.user, got)
		}
	}
}
