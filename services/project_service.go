package services

import (
	"context"
	"errors"
	"strings"

	"testcase-generator/dto"
	"testcase-generator/models"
	"testcase-generator/repositories"

	"gorm.io/gorm"
)

type IProjectService interface {
	FindAll(ctx context.Context, userID uint) ([]models.Project, error)
	FindByID(ctx context.Context, projectID uint, userID uint) (*models.Project, error)
	Create(ctx context.Context, input dto.CreateProjectInput, userID uint) (*models.Project, error)
	Update(ctx context.Context, projectID uint, userID uint, input dto.UpdateProjectInput) (*models.Project, error)
	Delete(ctx context.Context, projectID uint, userID uint) error
}

type ProjectService struct {
	repository repositories.IProjectRepository
}

func NewProjectService(repository repositories.IProjectRepository) IProjectService {
	return &ProjectService{repository: repository}
}

func (s *ProjectService) FindAll(ctx context.Context, userID uint) ([]models.Project, error) {
	return s.repository.FindAll(ctx, userID)
}

// FindByID は他人のプロジェクトも存在しないものとして扱う
func (s *ProjectService) FindByID(ctx context.Context, projectID uint, userID uint) (*models.Project, error) {
	project, err := s.repository.FindByID(ctx, projectID, userID)
	if err != nil {
		return nil, notFoundAs(err, ErrProjectNotFound)
	}
	return project, nil
}

func (s *ProjectService) Create(ctx context.Context, input dto.CreateProjectInput, userID uint) (*models.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidInput
	}

	newProject := models.Project{
		UserID:      userID,
		Name:        name,
		Description: input.Description,
	}
	if err := s.repository.Create(ctx, &newProject); err != nil {
		return nil, err
	}
	return &newProject, nil
}

func (s *ProjectService) Update(ctx context.Context, projectID uint, userID uint, input dto.UpdateProjectInput) (*models.Project, error) {
	targetProject, err := s.FindByID(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrInvalidInput
		}
		targetProject.Name = name
	}
	if input.Description != nil {
		targetProject.Description = input.Description
	}

	if err := s.repository.Update(ctx, targetProject); err != nil {
		return nil, notFoundAs(err, ErrProjectNotFound)
	}
	return s.FindByID(ctx, projectID, userID)
}

func (s *ProjectService) Delete(ctx context.Context, projectID uint, userID uint) error {
	if err := s.repository.Delete(ctx, projectID, userID); err != nil {
		return notFoundAs(err, ErrProjectNotFound)
	}
	return nil
}

func notFoundAs(err error, target error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return err
}
