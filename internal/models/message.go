package models

import (
	"gorm.io/gorm"
)

// Message represents an announcement shown to application users.
// Type ranges from informational to critical; the front-end picks the
// styling from it.
type Message struct {
	ID        int    `json:"id" gorm:"primaryKey"`
	Message   string `json:"message" gorm:"not null"`
	IsVisible bool   `json:"is_visible" gorm:"column:is_visible"`
	Type      int    `json:"type" gorm:"not null;default:0"`
	gorm.Model
}

// TableName specifies the table name for Message Model
func (Message) TableName() string {
	return "messages"
}
