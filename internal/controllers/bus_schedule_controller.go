package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"campushub/internal/models"
	"campushub/internal/timeutil"
)

type timingInput struct {
	RouteID   uint   `json:"route_id" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
}

type busScheduleInput struct {
	SchoolID    uint          `json:"school_id"`
	RouteTiming []timingInput `json:"route_timing" binding:"required,min=1,dive"`
	VehicleID   uint          `json:"vehicle_id" binding:"required"`
	DayOfWeek   int           `json:"day_of_week" binding:"min=1,max=7"`
	StartDate   string        `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate     string        `json:"end_date" binding:"required,datetime=2006-01-02"`
}

type busScheduleUpdate struct {
	RouteTiming *[]timingInput `json:"route_timing" binding:"omitempty,min=1,dive"`
	VehicleID   *uint          `json:"vehicle_id"`
	DayOfWeek   *int           `json:"day_of_week" binding:"omitempty,min=1,max=7"`
	StartDate   *string        `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate     *string        `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
}

// scheduleError is a client mistake in a schedule payload.
type scheduleError struct{ msg string }

func (e scheduleError) Error() string { return e.msg }

// buildTimings validates each pair against routes and derives its end time
// from the route estimate. A route without an estimate gets no end time.
func buildTimings(routes map[uint]models.Route, in []timingInput) ([]models.RouteTiming, error) {
	out := make([]models.RouteTiming, 0, len(in))
	for i, t := range in {
		route, ok := routes[t.RouteID]
		if !ok {
			return nil, scheduleError{fmt.Sprintf("route_timing[%d]: route %d not found", i, t.RouteID)}
		}
		if _, ok := timeutil.ToMinutes(timeutil.HHMM(t.StartTime)); !ok {
			return nil, scheduleError{fmt.Sprintf("route_timing[%d]: start_time must be HH:mm", i)}
		}
		end, _ := timeutil.DeriveEndTime(t.StartTime, route.EstimateTimeMinute)
		out = append(out, models.RouteTiming{RouteID: t.RouteID, StartTime: t.StartTime, EndTime: end})
	}
	return out, nil
}

func checkWindow(start, end string) error {
	if end < start {
		return scheduleError{"end_date must not be before start_date"}
	}
	return nil
}

// resolveTimings loads the referenced routes of schoolID and builds the pairs.
func resolveTimings(db *gorm.DB, schoolID uint, in []timingInput) ([]models.RouteTiming, error) {
	ids := make([]uint, 0, len(in))
	for _, t := range in {
		ids = append(ids, t.RouteID)
	}
	var routes []models.Route
	if err := db.Where("id IN ? AND school_id = ?", ids, schoolID).Find(&routes).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Route, len(routes))
	for _, r := range routes {
		byID[r.ID] = r
	}
	return buildTimings(byID, in)
}

func checkVehicle(db *gorm.DB, schoolID, vehicleID uint) error {
	var n int64
	if err := db.Model(&models.Vehicle{}).Where("id = ? AND school_id = ?", vehicleID, schoolID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return scheduleError{fmt.Sprintf("vehicle %d not found", vehicleID)}
	}
	return nil
}

func (ctl *Controller) scheduleFail(c *gin.Context, err error) {
	var se scheduleError
	if errors.As(err, &se) {
		fail(c, http.StatusBadRequest, se.msg)
		return
	}
	dbFail(c, err, "bus schedule")
}

func (ctl *Controller) ListBusSchedules(c *gin.Context) {
	ctl.listBusSchedules(c, ownSchool(c))
}

func (ctl *Controller) ListBusSchedulesBySchool(c *gin.Context) {
	if id, ok := pathSchool(c); ok {
		ctl.listBusSchedules(c, id)
	}
}

func (ctl *Controller) listBusSchedules(c *gin.Context, schoolID uint) {
	ctl.cachedList(c, resBusSchedule, schoolID, func() (any, error) {
		schedules := []models.BusSchedule{}
		err := scoped(ctl.DB, schoolID).Preload("Vehicle").
			Order("day_of_week").Order("start_date").Find(&schedules).Error
		return schedules, err
	})
}

func (ctl *Controller) GetBusSchedule(c *gin.Context) {
	if bs, ok := ctl.loadBusSchedule(c); ok {
		respond(c, http.StatusOK, bs, "")
	}
}

func (ctl *Controller) CreateBusSchedule(c *gin.Context) {
	var input busScheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	schoolID, ok := writeSchool(c, input.SchoolID)
	if !ok {
		return
	}
	if err := checkWindow(input.StartDate, input.EndDate); err != nil {
		ctl.scheduleFail(c, err)
		return
	}
	if err := checkVehicle(ctl.DB, schoolID, input.VehicleID); err != nil {
		ctl.scheduleFail(c, err)
		return
	}
	timings, err := resolveTimings(ctl.DB, schoolID, input.RouteTiming)
	if err != nil {
		ctl.scheduleFail(c, err)
		return
	}

	bs := models.BusSchedule{
		SchoolID:    schoolID,
		RouteTiming: datatypes.NewJSONSlice(timings),
		VehicleID:   input.VehicleID,
		DayOfWeek:   input.DayOfWeek,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
	}
	if err := ctl.DB.Create(&bs).Error; err != nil {
		dbFail(c, err, "bus schedule")
		return
	}
	ctl.invalidate(c.Request.Context(), resBusSchedule, schoolID)
	ctl.DB.Preload("Vehicle").First(&bs, bs.ID)
	respond(c, http.StatusCreated, bs, "bus schedule created")
}

func (ctl *Controller) UpdateBusSchedule(c *gin.Context) {
	bs, ok := ctl.loadBusSchedule(c)
	if !ok {
		return
	}
	var input busScheduleUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if input.VehicleID != nil {
		if err := checkVehicle(ctl.DB, bs.SchoolID, *input.VehicleID); err != nil {
			ctl.scheduleFail(c, err)
			return
		}
		bs.VehicleID = *input.VehicleID
		bs.Vehicle = nil
	}
	if input.RouteTiming != nil {
		timings, err := resolveTimings(ctl.DB, bs.SchoolID, *input.RouteTiming)
		if err != nil {
			ctl.scheduleFail(c, err)
			return
		}
		bs.RouteTiming = datatypes.NewJSONSlice(timings)
	}
	if input.DayOfWeek != nil {
		bs.DayOfWeek = *input.DayOfWeek
	}
	if input.StartDate != nil {
		bs.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		bs.EndDate = *input.EndDate
	}
	if err := checkWindow(bs.StartDate, bs.EndDate); err != nil {
		ctl.scheduleFail(c, err)
		return
	}

	if err := ctl.DB.Omit("Vehicle").Save(&bs).Error; err != nil {
		dbFail(c, err, "bus schedule")
		return
	}
	ctl.invalidate(c.Request.Context(), resBusSchedule, bs.SchoolID)
	ctl.DB.Preload("Vehicle").First(&bs, bs.ID)
	respond(c, http.StatusOK, bs, "bus schedule updated")
}

func (ctl *Controller) DeleteBusSchedule(c *gin.Context) {
	bs, ok := ctl.loadBusSchedule(c)
	if !ok {
		return
	}
	if err := ctl.DB.Delete(&bs).Error; err != nil {
		dbFail(c, err, "bus schedule")
		return
	}
	ctl.invalidate(c.Request.Context(), resBusSchedule, bs.SchoolID)
	respond(c, http.StatusOK, nil, "bus schedule deleted")
}

func (ctl *Controller) loadBusSchedule(c *gin.Context) (models.BusSchedule, bool) {
	var bs models.BusSchedule
	id, ok := parseID(c, "id")
	if !ok {
		return bs, false
	}
	if err := ctl.DB.Preload("Vehicle").First(&bs, id).Error; err != nil {
		dbFail(c, err, "bus schedule")
		return bs, false
	}
	return bs, canTouch(c, bs.SchoolID)
}
