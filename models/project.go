package models

import "time"

type Project struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;index" json:"-"`
	Name        string     `gorm:"not null" json:"name"`
	Description *string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Features    []Feature  `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	TestCases   []TestCase `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}
