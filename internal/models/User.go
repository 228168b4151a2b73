package models

type User struct {
	Model
	Name     string `json:"name"`
	Email    string `json:"email" gorm:"unique"`
	Password string `json:"-"`
	Phone    string `json:"phone"`
	Role     Role   `json:"role"`

	// Nil for admin and company_admin accounts.
	SchoolID *uint   `json:"school_id" gorm:"index"`
	School   *School `gorm:"foreignKey:SchoolID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"school,omitempty"`
}
