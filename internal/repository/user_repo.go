package repository

import (
	"context"
	"strings"

	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/models"
	"gorm.io/gorm"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(ctx context.Context, u *models.User) error {
	return translate(r.db.WithContext(ctx).Create(u).Error, "User")
}

func (r *UserRepo) ByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err, "User")
	}
	return &u, nil
}

func (r *UserRepo) ByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err, "User")
	}
	return &u, nil
}

// SearchByEmail is a case-insensitive containment match on email. The
// predicate is plain LOWER/LIKE so it behaves the same on every engine.
func (r *UserRepo) SearchByEmail(ctx context.Context, query string) ([]models.User, error) {
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"

	var users []models.User
	err := r.db.WithContext(ctx).
		Select("id", "name", "email", "created_at", "updated_at").
		Where(`LOWER(email) LIKE ? ESCAPE '\'`, pattern).
		Order("email ASC").
		Find(&users).Error

	return users, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
