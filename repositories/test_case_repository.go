package repositories

import (
	"context"
	"fmt"

	"testcase-generator/models"

	"gorm.io/gorm"
)

type ITestCaseRepository interface {
	FeatureExists(ctx context.Context, projectID uint, featureName string) (bool, error)
	CreateFeature(ctx context.Context, feature *models.Feature, testCases []models.TestCase) ([]models.TestCase, error)
	FindByFeature(ctx context.Context, projectID uint, featureName string) ([]models.TestCase, error)
	FindByProject(ctx context.Context, projectID uint) ([]models.TestCase, error)
	DeleteFeature(ctx context.Context, projectID uint, featureName string) (int64, error)
}

type TestCaseRepository struct {
	db *gorm.DB
}

func NewTestCaseRepository(db *gorm.DB) ITestCaseRepository {
	return &TestCaseRepository{db: db}
}

// FeatureExists は feature 行かテストケース行のどちらかが残っていれば true を返す
func (r *TestCaseRepository) FeatureExists(ctx context.Context, projectID uint, featureName string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&models.TestCase{}).
		Where("project_id = ? AND feature_name = ?", projectID, featureName).
		Count(&count)
	if result.Error != nil {
		return false, fmt.Errorf("count test cases: %w", result.Error)
	}
	if count > 0 {
		return true, nil
	}

	result = r.db.WithContext(ctx).
		Model(&models.Feature{}).
		Where("project_id = ? AND name = ?", projectID, featureName).
		Count(&count)
	if result.Error != nil {
		return false, fmt.Errorf("count features: %w", result.Error)
	}
	return count > 0, nil
}

// CreateFeature は feature 行とテストケースを1トランザクションで作る。
// 同じフィーチャーの同時登録は一意インデックスで gorm.ErrDuplicatedKey になり、何も書かれない
func (r *TestCaseRepository) CreateFeature(ctx context.Context, feature *models.Feature, testCases []models.TestCase) ([]models.TestCase, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(feature).Error; err != nil {
			return fmt.Errorf("create feature: %w", err)
		}
		if len(testCases) == 0 {
			return nil
		}
		if err := tx.Create(&testCases).Error; err != nil {
			return fmt.Errorf("create test cases: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return testCases, nil
}

func (r *TestCaseRepository) FindByFeature(ctx context.Context, projectID uint, featureName string) ([]models.TestCase, error) {
	testCases := []models.TestCase{}
	result := r.db.WithContext(ctx).
		Where("project_id = ? AND feature_name = ?", projectID, featureName).
		Order("id").
		Find(&testCases)
	if result.Error != nil {
		return nil, fmt.Errorf("find feature test cases: %w", result.Error)
	}
	return testCases, nil
}

func (r *TestCaseRepository) FindByProject(ctx context.Context, projectID uint) ([]models.TestCase, error) {
	testCases := []models.TestCase{}
	result := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("id").
		Find(&testCases)
	if result.Error != nil {
		return nil, fmt.Errorf("find project test cases: %w", result.Error)
	}
	return testCases, nil
}

func (r *TestCaseRepository) DeleteFeature(ctx context.Context, projectID uint, featureName string) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("project_id = ? AND feature_name = ?", projectID, featureName).Delete(&models.TestCase{})
		if result.Error != nil {
			return fmt.Errorf("delete feature test cases: %w", result.Error)
		}
		deleted = result.RowsAffected

		if err := tx.Where("project_id = ? AND name = ?", projectID, featureName).Delete(&models.Feature{}).Error; err != nil {
			return fmt.Errorf("delete feature: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}
