package models

// Stop is a named pickup or drop-off point.
type Stop struct {
	Model

	SchoolID uint     `gorm:"index" json:"school_id"`
	Name     string   `json:"name"`
	Type     StopType `json:"type"`
	Image    string   `json:"image,omitempty"`
	Lat      float64  `json:"lat,omitempty"`
	Lng      float64  `json:"lng,omitempty"`
}
