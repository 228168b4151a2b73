package models

import (
	"github.com/lib/pq"
)

// Route is an ordered sequence of stops with a travel estimate and a fare.
type Route struct {
	Model

	SchoolID           uint          `gorm:"index" json:"school_id"`
	Name               string        `json:"name"`
	StopIDs            pq.Int64Array `gorm:"type:bigint[]" json:"stop_ids"`
	EstimateTimeMinute int           `json:"estimate_time_minute"`
	Fare               float64       `json:"fare"`

	// Geometry is stored as WKB; GeoJSON is what travels over the wire.
	Geometry []byte `gorm:"type:bytea" json:"-"`
	GeoJSON  string `gorm:"-" json:"geometry,omitempty"`

	// Stops is filled in StopIDs order when a route is rendered.
	Stops []Stop `gorm:"-" json:"stops,omitempty"`
}
