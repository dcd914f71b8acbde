package repositories

import (
	"context"
	"fmt"

	"testcase-generator/models"

	"gorm.io/gorm"
)

type IAuthRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUserByID(ctx context.Context, userID uint) (*models.User, error)
	DeleteUser(ctx context.Context, userID uint) error
}

type AuthRepository struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) IAuthRepository {
	return &AuthRepository{db: db}
}

func (r *AuthRepository) CreateUser(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *AuthRepository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findUser(ctx, "email = ?", email)
}

func (r *AuthRepository) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findUser(ctx, "username = ?", username)
}

func (r *AuthRepository) FindUserByID(ctx context.Context, userID uint) (*models.User, error) {
	return r.findUser(ctx, "id = ?", userID)
}

func (r *AuthRepository) findUser(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, query, arg).Error; err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// DeleteUser はユーザーと配下のプロジェクト・フィーチャー・テストケースをまとめて削除する
func (r *AuthRepository) DeleteUser(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		projectIDs := tx.Model(&models.Project{}).Select("id").Where("user_id = ?", userID)

		if err := tx.Where("project_id IN (?)", projectIDs).Delete(&models.TestCase{}).Error; err != nil {
			return fmt.Errorf("delete user test cases: %w", err)
		}
		if err := tx.Where("project_id IN (?)", projectIDs).Delete(&models.Feature{}).Error; err != nil {
			return fmt.Errorf("delete user features: %w", err)
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Project{}).Error; err != nil {
			return fmt.Errorf("delete user projects: %w", err)
		}

		result := tx.Delete(&models.User{}, "id = ?", userID)
		if result.Error != nil {
			return fmt.Errorf("delete user: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
