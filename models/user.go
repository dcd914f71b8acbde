package models

import "time"

// User は論理削除しない（削除時はプロジェクトごと物理削除する）
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Email          string    `gorm:"not null;uniqueIndex" json:"email"`
	Username       string    `gorm:"not null;uniqueIndex" json:"username"`
	HashedPassword string    `gorm:"not null" json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	Projects       []Project `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}
