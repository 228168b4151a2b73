package models

import (
	"time"
)

// EHailing is a single on-demand ride request made by a student.
type EHailing struct {
	Model

	SchoolID  uint           `gorm:"index" json:"school_id"`
	StudentID uint           `gorm:"index" json:"student_id"`
	Student   *User          `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	RouteID   uint           `gorm:"index" json:"route_id"`
	Route     *Route         `gorm:"foreignKey:RouteID" json:"route,omitempty"`
	VehicleID *uint          `json:"vehicle_id"`
	Vehicle   *Vehicle       `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
	Status    EHailingStatus `gorm:"default:waiting;index" json:"status"`
	RequestAt time.Time      `json:"request_at"`
}
