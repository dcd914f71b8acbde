package dto

import "testcase-generator/models"

type GenerateTestCasesInput struct {
	FeatureName     string `json:"feature_name" binding:"required,max=200"`
	RequirementText string `json:"requirement_text" binding:"required"`
}

type GenerateTestCasesResponse struct {
	Message        string            `json:"message"`
	FeatureName    string            `json:"feature_name"`
	TestCasesCount int               `json:"test_cases_count"`
	TestCases      []models.TestCase `json:"test_cases"`
}

type DeleteFeatureResponse struct {
	Message      string `json:"message"`
	DeletedCount int64  `json:"deleted_count"`
}
