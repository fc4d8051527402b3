// Package testutil opens throwaway databases and seeds fixtures for tests.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/db"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/models"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/repository"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// NewDB opens a private in-memory SQLite database with the schema migrated.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	gdb, err := db.ConnectDatabase("sqlite", dsn, zerolog.Nop())
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	if err := db.MigrateDatabase(gdb); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return gdb
}

func NewStore(t testing.TB) *repository.Store {
	t.Helper()
	return repository.NewStore(NewDB(t))
}

// Password is the plaintext password of every seeded user.
const Password = "password123"

var (
	hashOnce sync.Once
	hash     string
)

// passwordHash hashes Password once at the lowest bcrypt cost so seeding stays fast.
func passwordHash() string {
	hashOnce.Do(func() {
		b, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
		if err != nil {
			panic(err)
		}
		hash = string(b)
	})
	return hash
}

// SeedUser inserts a user whose email is derived from name.
func SeedUser(t testing.TB, store *repository.Store, name string) *models.User {
	t.Helper()

	u := &models.User{
		Name:         name,
		Email:        strings.ToLower(name) + "@example.com",
		PasswordHash: passwordHash(),
	}
	if err := store.Users.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user %s: %v", name, err)
	}
	return u
}

func SeedProject(t testing.TB, store *repository.Store, owner *models.User, name string) *models.Project {
	t.Helper()

	p := &models.Project{Name: name, OwnerID: owner.ID}
	if err := store.Projects.Create(context.Background(), p); err != nil {
		t.Fatalf("seed project %s: %v", name, err)
	}
	return p
}

// SeedProjectAt inserts a project with a fixed creation time.
func SeedProjectAt(t testing.TB, store *repository.Store, owner *models.User, name string, at time.Time) *models.Project {
	t.Helper()

	p := &models.Project{Name: name, OwnerID: owner.ID}
	p.CreatedAt = at
	if err := store.Projects.Create(context.Background(), p); err != nil {
		t.Fatalf("seed project %s: %v", name, err)
	}
	return p
}

func SeedMember(t testing.TB, store *repository.Store, project *models.Project, user *models.User) {
	t.Helper()

	if _, err := store.Members.Add(context.Background(), project.ID, user.ID); err != nil {
		t.Fatalf("seed member %s: %v", user.Name, err)
	}
}

func SeedTask(t testing.TB, store *repository.Store, project *models.Project, title string, assignee *models.User) *models.Task {
	t.Helper()

	task := &models.Task{ProjectID: project.ID, Title: title, Status: models.StatusTodo}
	if assignee != nil {
		id := assignee.ID
		task.AssigneeID = &id
	}
	if err := store.Tasks.Create(context.Background(), task); err != nil {
		t.Fatalf("seed task %s: %v", title, err)
	}
	return task
}
