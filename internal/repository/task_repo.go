package repository

import (
	"context"

	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/models"
	"gorm.io/gorm"
)

type TaskRepo struct{ db *gorm.DB }

func NewTaskRepo(db *gorm.DB) *TaskRepo {
	return &TaskRepo{db: db}
}

func (r *TaskRepo) Create(ctx context.Context, t *models.Task) error {
	return translate(r.db.WithContext(ctx).Create(t).Error, "Task")
}

func (r *TaskRepo) ByID(ctx context.Context, id string) (*models.Task, error) {
	var t models.Task
	if err := r.db.WithContext(ctx).Preload("Assignee").First(&t, "id = ?", id).Error; err != nil {
		return nil, translate(err, "Task")
	}
	return &t, nil
}

func (r *TaskRepo) ListByProject(ctx context.Context, projectID string) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.WithContext(ctx).
		Preload("Assignee").
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&tasks).Error

	return tasks, err
}

// Update applies a column -> value patch to one task.
func (r *TaskRepo) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	res := r.db.WithContext(ctx).Model(&models.Task{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "Task")
	}
	return nil
}

func (r *TaskRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Task{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "Task")
	}
	return nil
}

// Reassign moves every task of projectID assigned to from over to to.
func (r *TaskRepo) Reassign(ctx context.Context, projectID, from, to string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("project_id = ? AND assignee_id = ?", projectID, from).
		Update("assignee_id", to)

	return res.RowsAffected, res.Error
}
