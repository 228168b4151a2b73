package models

// Role is the account role carried in the JWT.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleCompanyAdmin Role = "company_admin"
	RoleSchoolAdmin  Role = "school_admin"
	RoleStudent      Role = "student"
)

// TenantScoped reports whether the role only ever sees its own school's data.
func (r Role) TenantScoped() bool {
	return r == RoleSchoolAdmin || r == RoleStudent
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCompanyAdmin, RoleSchoolAdmin, RoleStudent:
		return true
	}
	return false
}

// StopType classifies a pickup point.
type StopType string

const (
	StopTypeDorm       StopType = "dorm"
	StopTypeCampus     StopType = "campus"
	StopTypeBusStation StopType = "bus_station"
)

type VehicleType string

const (
	VehicleTypeBus VehicleType = "bus"
	VehicleTypeCar VehicleType = "car"
)

type VehicleStatus string

const (
	VehicleAvailable        VehicleStatus = "available"
	VehicleInService        VehicleStatus = "in_service"
	VehicleUnderMaintenance VehicleStatus = "under_maintenance"
	VehicleInactive         VehicleStatus = "inactive"
)

// EHailingStatus is the lifecycle state of a ride request. Any status may
// follow any other.
type EHailingStatus string

const (
	EHailingWaiting    EHailingStatus = "waiting"
	EHailingInProgress EHailingStatus = "in_progress"
	EHailingCompleted  EHailingStatus = "completed"
	EHailingCancelled  EHailingStatus = "cancelled"
	EHailingDelayed    EHailingStatus = "delayed"
)
