package models

import (
	"gorm.io/datatypes"
)

// RouteTiming pairs a route with the time a vehicle departs on it.
// EndTime is derived from the route's estimate.
type RouteTiming struct {
	RouteID   uint   `json:"route_id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time,omitempty"`
}

// BusSchedule assigns one vehicle to one or more route departures on a
// weekday, repeating between StartDate and EndDate (YYYY-MM-DD, inclusive).
type BusSchedule struct {
	Model

	SchoolID    uint                             `gorm:"index" json:"school_id"`
	RouteTiming datatypes.JSONSlice[RouteTiming] `json:"route_timing"`
	VehicleID   uint                             `gorm:"index" json:"vehicle_id"`
	Vehicle     *Vehicle                         `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
	DayOfWeek   int                              `json:"day_of_week"`
	StartDate   string                           `gorm:"type:varchar(10)" json:"start_date"`
	EndDate     string                           `gorm:"type:varchar(10)" json:"end_date"`
}
