// internal/models/vehicle.go
package models

type Vehicle struct {
	Model
	SchoolID    uint          `gorm:"index" json:"school_id"`
	PlateNumber string        `gorm:"index" json:"plate_number"`
	Type        VehicleType   `json:"type"`
	Capacity    int           `json:"capacity"`
	Status      VehicleStatus `gorm:"default:available" json:"status"`
}
