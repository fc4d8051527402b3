package repository

import (
	"context"

	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/models"
	"gorm.io/gorm"
)

type MembershipRepo struct{ db *gorm.DB }

func NewMembershipRepo(db *gorm.DB) *MembershipRepo {
	return &MembershipRepo{db: db}
}

func (r *MembershipRepo) Exists(ctx context.Context, projectID, userID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&n).Error

	return n > 0, err
}

func (r *MembershipRepo) Add(ctx context.Context, projectID, userID string) (*models.ProjectMember, error) {
	m := &models.ProjectMember{ProjectID: projectID, UserID: userID}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, translate(err, "Membership")
	}
	return m, nil
}

// Remove deletes the roster row and reports how many rows went away (0 or 1).
func (r *MembershipRepo) Remove(ctx context.Context, projectID, userID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&models.ProjectMember{})

	return res.RowsAffected, res.Error
}
