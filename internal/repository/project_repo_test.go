package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/apperr"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/repository"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/testutil"
)

func TestProjectRepoListAccessible(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := context.Background()

	alice := testutil.SeedUser(t, store, "alice")
	bob := testutil.SeedUser(t, store, "bob")
	carol := testutil.SeedUser(t, store, "carol")

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	older := testutil.SeedProjectAt(t, store, alice, "older", base)
	shared := testutil.SeedProjectAt(t, store, bob, "shared", base.Add(time.Hour))
	testutil.SeedProjectAt(t, store, carol, "private", base.Add(2*time.Hour))
	testutil.SeedMember(t, store, shared, alice)

	projects, err := store.Projects.ListAccessible(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListAccessible() error = %v", err)
	}

	if len(projects) != 2 {
		t.Fatalf("ListAccessible() returned %d projects, want 2", len(projects))
	}
	if projects[0].ID != shared.ID || projects[1].ID != older.ID {
		t.Errorf("ListAccessible() order = [%s %s], want newest first", projects[0].Name, projects[1].Name)
	}
	if projects[0].Owner.ID != bob.ID {
		t.Errorf("owner not preloaded: %+v", projects[0].Owner)
	}
}

func TestProjectRepoCounts(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := context.Background()

	alice := testutil.SeedUser(t, store, "alice")
	bob := testutil.SeedUser(t, store, "bob")
	busy := testutil.SeedProject(t, store, alice, "busy")
	empty := testutil.SeedProject(t, store, alice, "empty")

	testutil.SeedMember(t, store, busy, bob)
	testutil.SeedTask(t, store, busy, "one", alice)
	testutil.SeedTask(t, store, busy, "two", bob)

	counts, err := store.Projects.Counts(ctx, []string{busy.ID, empty.ID})
	if err != nil {
		t.Fatalf("Counts() error = %v", err)
	}

	if got := counts[busy.ID]; got != (repository.ProjectCounts{Tasks: 2, Members: 1}) {
		t.Errorf("counts[busy] = %+v", got)
	}
	if got := counts[empty.ID]; got != (repository.ProjectCounts{}) {
		t.Errorf("counts[empty] = %+v", got)
	}
}

func TestProjectRepoDetailOrdersTasks(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := context.Background()

	alice := testutil.SeedUser(t, store, "alice")
	bob := testutil.SeedUser(t, store, "bob")
	p := testutil.SeedProject(t, store, alice, "board")
	testutil.SeedMember(t, store, p, bob)
	first := testutil.SeedTask(t, store, p, "first", bob)
	second := testutil.SeedTask(t, store, p, "second", nil)

	detail, err := store.Projects.Detail(ctx, p.ID)
	if err != nil {
		t.Fatalf("Detail() error = %v", err)
	}

	if len(detail.Tasks) != 2 || detail.Tasks[0].ID != first.ID || detail.Tasks[1].ID != second.ID {
		t.Fatalf("Detail().Tasks not oldest first: %+v", detail.Tasks)
	}
	if detail.Tasks[0].Assignee == nil || detail.Tasks[0].Assignee.ID != bob.ID {
		t.Errorf("assignee not preloaded")
	}
	if len(detail.Members) != 1 || detail.Members[0].User.Email != bob.Email {
		t.Errorf("members not preloaded: %+v", detail.Members)
	}
}

func TestProjectRepoDeleteRemovesChildren(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := context.Background()

	alice := testutil.SeedUser(t, store, "alice")
	bob := testutil.SeedUser(t, store, "bob")
	p := testutil.SeedProject(t, store, alice, "doomed")
	testutil.SeedMember(t, store, p, bob)
	task := testutil.SeedTask(t, store, p, "task", bob)

	err := store.Transaction(ctx, func(tx *repository.Store) error {
		return tx.Projects.Delete(ctx, p.ID)
	})
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := store.Projects.ByID(ctx, p.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("project still present: %v", err)
	}
	if _, err := store.Tasks.ByID(ctx, task.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("task still present: %v", err)
	}
	if ok, _ := store.Members.Exists(ctx, p.ID, bob.ID); ok {
		t.Errorf("membership still present")
	}

	if err := store.Projects.Delete(ctx, p.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}
