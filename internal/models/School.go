// internal/models/school.go
package models

// School is the tenant. Every transportation record belongs to exactly one.
type School struct {
	Model

	Name    string `json:"name"`
	Code    string `gorm:"uniqueIndex;not null" json:"code"`
	Address string `json:"address"`

	Users []User `gorm:"foreignKey:SchoolID" json:"users,omitempty"`
}
