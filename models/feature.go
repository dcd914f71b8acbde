package models

import "time"

// Feature は (project_id, name) ごとに1行だけ存在し、同一フィーチャーの二重生成を防ぐ
type Feature struct {
	ID              uint   `gorm:"primaryKey"`
	ProjectID       uint   `gorm:"not null;uniqueIndex:idx_features_project_name"`
	Name            string `gorm:"not null;uniqueIndex:idx_features_project_name"`
	RequirementText string `gorm:"type:text;not null"`
	CreatedAt       time.Time
}
