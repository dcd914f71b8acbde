package repositories

import (
	"context"
	"fmt"

	"testcase-generator/models"

	"gorm.io/gorm"
)

// IProjectRepository の検索・更新・削除はすべて所有者 (user_id) で絞り込む
type IProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	FindAll(ctx context.Context, userID uint) ([]models.Project, error)
	FindByID(ctx context.Context, projectID uint, userID uint) (*models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, projectID uint, userID uint) error
}

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) IProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	if err := r.db.WithContext(ctx).Create(project).Error; err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

func (r *ProjectRepository) FindAll(ctx context.Context, userID uint) ([]models.Project, error) {
	projects := []models.Project{}
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&projects)
	if result.Error != nil {
		return nil, fmt.Errorf("find projects: %w", result.Error)
	}
	return projects, nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, projectID uint, userID uint) (*models.Project, error) {
	var project models.Project
	result := r.db.WithContext(ctx).First(&project, "id = ? AND user_id = ?", projectID, userID)
	if result.Error != nil {
		return nil, fmt.Errorf("find project: %w", result.Error)
	}
	return &project, nil
}

func (r *ProjectRepository) Update(ctx context.Context, project *models.Project) error {
	result := r.db.WithContext(ctx).
		Model(project).
		Where("user_id = ?", project.UserID).
		Select("name", "description").
		Updates(project)
	if result.Error != nil {
		return fmt.Errorf("update project: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, projectID uint, userID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := tx.First(&project, "id = ? AND user_id = ?", projectID, userID).Error; err != nil {
			return fmt.Errorf("find project: %w", err)
		}

		if err := tx.Where("project_id = ?", project.ID).Delete(&models.TestCase{}).Error; err != nil {
			return fmt.Errorf("delete project test cases: %w", err)
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.Feature{}).Error; err != nil {
			return fmt.Errorf("delete project features: %w", err)
		}
		if err := tx.Delete(&project).Error; err != nil {
			return fmt.Errorf("delete project: %w", err)
		}
		return nil
	})
}
