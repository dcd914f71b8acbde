package models

import (
	"time"

	"gorm.io/datatypes"
)

type TestCase struct {
	ID              uint                        `gorm:"primaryKey" json:"id"`
	ProjectID       uint                        `gorm:"not null;index:idx_test_cases_project_feature" json:"project_id"`
	FeatureName     string                      `gorm:"not null;index:idx_test_cases_project_feature" json:"feature_name"`
	RequirementText string                      `gorm:"type:text;not null" json:"requirement_text"`
	Title           string                      `gorm:"not null" json:"title"`
	Description     string                      `gorm:"type:text;not null" json:"description"`
	Type            string                      `gorm:"not null" json:"type"`
	Steps           datatypes.JSONSlice[string] `gorm:"not null" json:"steps"`
	ExpectedResult  string                      `gorm:"type:text;not null" json:"expected_result"`
	CreatedAt       time.Time                   `json:"created_at"`
}
