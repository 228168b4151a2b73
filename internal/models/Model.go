package models

import (
	"time"

	"gorm.io/gorm"
)

// Model mirrors gorm.Model with snake_case JSON keys so clients decode
// responses straight into these structs.
type Model struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// EntityID returns the primary key.
func (m Model) EntityID() uint {
	return m.ID
}
