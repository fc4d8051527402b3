package repository

import (
	"context"
	"errors"

	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/db"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/apperr"
	"gorm.io/gorm"
)

// Store bundles the repositories that share one gorm handle, which is either
// the root connection or an open transaction.
type Store struct {
	db *gorm.DB

	Users    *UserRepo
	Projects *ProjectRepo
	Members  *MembershipRepo
	Tasks    *TaskRepo
}

func NewStore(gdb *gorm.DB) *Store {
	return &Store{
		db:       gdb,
		Users:    NewUserRepo(gdb),
		Projects: NewProjectRepo(gdb),
		Members:  NewMembershipRepo(gdb),
		Tasks:    NewTaskRepo(gdb),
	}
}

// Transaction runs fn against a Store bound to a single database transaction.
// Returning an error from fn rolls everything back.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

func (s *Store) Migrate() error {
	return db.MigrateDatabase(s.db)
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// translate maps gorm errors onto the application's sentinel errors.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFound(what + " not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.Conflict(what + " already exists")
	}
	return err
}
