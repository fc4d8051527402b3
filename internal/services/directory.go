package services

import (
	"context"
	"strings"

	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/apperr"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/models"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/repository"
)

// Directory is the read side of the user table.
type Directory struct {
	store *repository.Store
}

func NewDirectory(store *repository.Store) *Directory {
	return &Directory{store: store}
}

func (d *Directory) FindByID(ctx context.Context, id string) (*models.User, error) {
	return d.store.Users.ByID(ctx, id)
}

func (d *Directory) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return d.store.Users.ByEmail(ctx, normalizeEmail(email))
}

func (d *Directory) SearchByEmail(ctx context.Context, query string) ([]models.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperr.Validation("Query email is required")
	}
	return d.store.Users.SearchByEmail(ctx, query)
}
