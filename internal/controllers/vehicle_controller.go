package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campushub/internal/models"
)

type vehicleInput struct {
	SchoolID    uint                 `json:"school_id"`
	PlateNumber string               `json:"plate_number" binding:"required"`
	Type        models.VehicleType   `json:"type" binding:"required,oneof=bus car"`
	Capacity    int                  `json:"capacity" binding:"required,gte=1"`
	Status      models.VehicleStatus `json:"status" binding:"omitempty,oneof=available in_service under_maintenance inactive"`
}

type vehicleUpdate struct {
	PlateNumber *string               `json:"plate_number" binding:"omitempty,min=1"`
	Type        *models.VehicleType   `json:"type" binding:"omitempty,oneof=bus car"`
	Capacity    *int                  `json:"capacity" binding:"omitempty,gte=1"`
	Status      *models.VehicleStatus `json:"status" binding:"omitempty,oneof=available in_service under_maintenance inactive"`
}

func (ctl *Controller) ListVehicles(c *gin.Context) {
	ctl.listVehicles(c, ownSchool(c))
}

func (ctl *Controller) ListVehiclesBySchool(c *gin.Context) {
	if id, ok := pathSchool(c); ok {
		ctl.listVehicles(c, id)
	}
}

func (ctl *Controller) listVehicles(c *gin.Context, schoolID uint) {
	ctl.cachedList(c, resVehicle, schoolID, func() (any, error) {
		vehicles := []models.Vehicle{}
		err := scoped(ctl.DB, schoolID).Order("plate_number").Find(&vehicles).Error
		return vehicles, err
	})
}

func (ctl *Controller) GetVehicle(c *gin.Context) {
	if v, ok := ctl.loadVehicle(c); ok {
		respond(c, http.StatusOK, v, "")
	}
}

// CreateVehicle registers a vehicle; status defaults to available.
func (ctl *Controller) CreateVehicle(c *gin.Context) {
	var input vehicleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, "Invalid vehicle input: "+err.Error())
		return
	}
	schoolID, ok := writeSchool(c, input.SchoolID)
	if !ok {
		return
	}
	if input.Status == "" {
		input.Status = models.VehicleAvailable
	}

	vehicle := models.Vehicle{
		SchoolID:    schoolID,
		PlateNumber: input.PlateNumber,
		Type:        input.Type,
		Capacity:    input.Capacity,
		Status:      input.Status,
	}
	if err := ctl.DB.Create(&vehicle).Error; err != nil {
		dbFail(c, err, "vehicle")
		return
	}
	ctl.invalidate(c.Request.Context(), resVehicle, schoolID)
	respond(c, http.StatusCreated, vehicle, "vehicle created")
}

func (ctl *Controller) UpdateVehicle(c *gin.Context) {
	vehicle, ok := ctl.loadVehicle(c)
	if !ok {
		return
	}
	var input vehicleUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, "Invalid update: "+err.Error())
		return
	}
	if input.PlateNumber != nil {
		vehicle.PlateNumber = *input.PlateNumber
	}
	if input.Type != nil {
		vehicle.Type = *input.Type
	}
	if input.Capacity != nil {
		vehicle.Capacity = *input.Capacity
	}
	if input.Status != nil {
		vehicle.Status = *input.Status
	}

	if err := ctl.DB.Save(&vehicle).Error; err != nil {
		dbFail(c, err, "vehicle")
		return
	}
	ctl.invalidate(c.Request.Context(), resVehicle, vehicle.SchoolID)
	respond(c, http.StatusOK, vehicle, "vehicle updated")
}

func (ctl *Controller) DeleteVehicle(c *gin.Context) {
	vehicle, ok := ctl.loadVehicle(c)
	if !ok {
		return
	}
	var scheduled int64
	if err := ctl.DB.Model(&models.BusSchedule{}).Where("vehicle_id = ?", vehicle.ID).Count(&scheduled).Error; err != nil {
		dbFail(c, err, "vehicle")
		return
	}
	if scheduled > 0 {
		fail(c, http.StatusConflict, "vehicle is assigned to a schedule")
		return
	}
	if err := ctl.DB.Delete(&vehicle).Error; err != nil {
		dbFail(c, err, "vehicle")
		return
	}
	ctl.invalidate(c.Request.Context(), resVehicle, vehicle.SchoolID)
	respond(c, http.StatusOK, nil, "Vehicle deleted")
}

func (ctl *Controller) loadVehicle(c *gin.Context) (models.Vehicle, bool) {
	var vehicle models.Vehicle
	id, ok := parseID(c, "id")
	if !ok {
		return vehicle, false
	}
	if err := ctl.DB.First(&vehicle, id).Error; err != nil {
		dbFail(c, err, "vehicle")
		return vehicle, false
	}
	return vehicle, canTouch(c, vehicle.SchoolID)
}
