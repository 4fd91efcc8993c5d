package models

import "time"

type User struct {
	ID         uint      `gorm:"primaryKey"`
	Name       string    `gorm:"uniqueIndex;not null"`
	ExternalID string    `gorm:"not null;default:''"`
	CreatedAt  time.Time `gorm:"not null"`
}
