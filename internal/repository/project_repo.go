package repository

import (
	"context"

	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProjectRepo struct{ db *gorm.DB }

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db: db}
}

// ProjectCounts is the number of tasks and roster rows of one project.
type ProjectCounts struct {
	Tasks   int64
	Members int64
}

func (r *ProjectRepo) Create(ctx context.Context, p *models.Project) error {
	return translate(r.db.WithContext(ctx).Create(p).Error, "Project")
}

func (r *ProjectRepo) ByID(ctx context.Context, id string) (*models.Project, error) {
	var p models.Project
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err, "Project")
	}
	return &p, nil
}

// ByIDForUpdate loads the project and locks its row until the surrounding
// transaction ends. Membership and task mutations of one project serialise on it.
func (r *ProjectRepo) ByIDForUpdate(ctx context.Context, id string) (*models.Project, error) {
	var p models.Project
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err, "Project")
	}
	return &p, nil
}

// Detail loads the project with its tasks (oldest first, with assignee) and
// its roster (with user).
func (r *ProjectRepo) Detail(ctx context.Context, id string) (*models.Project, error) {
	var p models.Project
	err := r.db.WithContext(ctx).
		Preload("Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("tasks.created_at ASC")
		}).
		Preload("Tasks.Assignee").
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("project_members.created_at ASC")
		}).
		Preload("Members.User").
		First(&p, "id = ?", id).Error

	if err != nil {
		return nil, translate(err, "Project")
	}
	return &p, nil
}

// ListAccessible returns projects owned by userID or where userID holds a
// roster row, newest first, with the owner preloaded.
func (r *ProjectRepo) ListAccessible(ctx context.Context, userID string) ([]models.Project, error) {
	memberOf := r.db.Model(&models.ProjectMember{}).Select("project_id").Where("user_id = ?", userID)

	var projects []models.Project
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("owner_id = ? OR id IN (?)", userID, memberOf).
		Order("created_at DESC").
		Find(&projects).Error

	return projects, err
}

func (r *ProjectRepo) Counts(ctx context.Context, ids []string) (map[string]ProjectCounts, error) {
	counts := make(map[string]ProjectCounts, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	type row struct {
		ProjectID string
		N         int64
	}

	var taskRows, memberRows []row
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.Task{}).
		Select("project_id, COUNT(*) AS n").
		Where("project_id IN ?", ids).
		Group("project_id").
		Scan(&taskRows).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&models.ProjectMember{}).
		Select("project_id, COUNT(*) AS n").
		Where("project_id IN ?", ids).
		Group("project_id").
		Scan(&memberRows).Error; err != nil {
		return nil, err
	}

	for _, tr := range taskRows {
		c := counts[tr.ProjectID]
		c.Tasks = tr.N
		counts[tr.ProjectID] = c
	}
	for _, mr := range memberRows {
		c := counts[mr.ProjectID]
		c.Members = mr.N
		counts[mr.ProjectID] = c
	}

	return counts, nil
}

func (r *ProjectRepo) UpdateName(ctx context.Context, p *models.Project, name string) error {
	return r.db.WithContext(ctx).Model(p).Update("name", name).Error
}

// Delete removes the project together with its tasks and roster. Call it
// inside a transaction; the foreign keys cascade too, but not every engine
// enforces them.
func (r *ProjectRepo) Delete(ctx context.Context, id string) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
		return err
	}

	if err := db.Where("project_id = ?", id).Delete(&models.ProjectMember{}).Error; err != nil {
		return err
	}

	res := db.Delete(&models.Project{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "Project")
	}

	return nil
}
