package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"testcase-generator/generator"
	"testcase-generator/infra"
	"testcase-generator/models"
	"testcase-generator/repositories"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type GenerateResult struct {
	FeatureName string
	TestCases   []models.TestCase
}

func (r GenerateResult) Count() int {
	return len(r.TestCases)
}

type ProjectWithFeatures struct {
	models.Project
	Features []FeatureBucket `json:"features"`
}

type ITestCaseService interface {
	Generate(ctx context.Context, projectID uint, userID uint, featureName string, requirementText string) (*GenerateResult, error)
	ListByFeature(ctx context.Context, projectID uint, userID uint, featureName string) ([]models.TestCase, error)
	DeleteByFeature(ctx context.Context, projectID uint, userID uint, featureName string) (int64, error)
	GetProjectGrouped(ctx context.Context, projectID uint, userID uint) (*ProjectWithFeatures, error)
}

type TestCaseService struct {
	projectRepository  repositories.IProjectRepository
	testCaseRepository repositories.ITestCaseRepository
	generator          generator.IGenerator
	logger             *zap.Logger
}

func NewTestCaseService(
	projectRepository repositories.IProjectRepository,
	testCaseRepository repositories.ITestCaseRepository,
	gen generator.IGenerator,
	logger *zap.Logger,
) ITestCaseService {
	return &TestCaseService{
		projectRepository:  projectRepository,
		testCaseRepository: testCaseRepository,
		generator:          gen,
		logger:             logger,
	}
}

func (s *TestCaseService) ownedProject(ctx context.Context, projectID uint, userID uint) (*models.Project, error) {
	project, err := s.projectRepository.FindByID(ctx, projectID, userID)
	if err != nil {
		return nil, notFoundAs(err, ErrProjectNotFound)
	}
	return project, nil
}

func (s *TestCaseService) Generate(ctx context.Context, projectID uint, userID uint, featureName string, requirementText string) (*GenerateResult, error) {
	featureName = strings.TrimSpace(featureName)
	requirementText = strings.TrimSpace(requirementText)
	if featureName == "" || requirementText == "" {
		return nil, ErrInvalidInput
	}

	if _, err := s.ownedProject(ctx, projectID, userID); err != nil {
		return nil, err
	}

	exists, err := s.testCaseRepository.FeatureExists(ctx, projectID, featureName)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", ErrFeatureExists, featureName)
	}

	lg := s.logger.With(
		zap.String("request_id", infra.RequestID(ctx)),
		zap.Uint("project_id", projectID),
		zap.String("feature_name", featureName),
	)

	generated, err := s.generator.Generate(ctx, requirementText)
	if err != nil {
		lg.Error("test case generation failed", zap.Error(err))
		return nil, err
	}

	testCases := make([]models.TestCase, 0, len(generated))
	for _, tc := range generated {
		testCases = append(testCases, models.TestCase{
			ProjectID:       projectID,
			FeatureName:     featureName,
			RequirementText: requirementText,
			Title:           tc.Title,
			Description:     tc.Description,
			Type:            tc.Type,
			Steps:           datatypes.JSONSlice[string](tc.Steps),
			ExpectedResult:  tc.ExpectedResult,
		})
	}

	feature := models.Feature{
		ProjectID:       projectID,
		Name:            featureName,
		RequirementText: requirementText,
	}
	created, err := s.testCaseRepository.CreateFeature(ctx, &feature, testCases)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %s", ErrFeatureExists, featureName)
		}
		lg.Error("saving generated test cases failed", zap.Error(err))
		return nil, err
	}

	lg.Info("test cases generated", zap.Int("count", len(created)))
	return &GenerateResult{FeatureName: featureName, TestCases: created}, nil
}

func (s *TestCaseService) ListByFeature(ctx context.Context, projectID uint, userID uint, featureName string) ([]models.TestCase, error) {
	featureName = strings.TrimSpace(featureName)
	if _, err := s.ownedProject(ctx, projectID, userID); err != nil {
		return nil, err
	}
	return s.testCaseRepository.FindByFeature(ctx, projectID, featureName)
}

func (s *TestCaseService) DeleteByFeature(ctx context.Context, projectID uint, userID uint, featureName string) (int64, error) {
	featureName = strings.TrimSpace(featureName)
	if _, err := s.ownedProject(ctx, projectID, userID); err != nil {
		return 0, err
	}
	return s.testCaseRepository.DeleteFeature(ctx, projectID, featureName)
}

func (s *TestCaseService) GetProjectGrouped(ctx context.Context, projectID uint, userID uint) (*ProjectWithFeatures, error) {
	project, err := s.ownedProject(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}

	testCases, err := s.testCaseRepository.FindByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	return &ProjectWithFeatures{
		Project:  *project,
		Features: GroupByFeature(testCases),
	}, nil
}
