package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"campushub/internal/models"
	"campushub/internal/realtime"
)

type eHailingInput struct {
	SchoolID  uint                  `json:"school_id"`
	StudentID uint                  `json:"student_id"`
	RouteID   uint                  `json:"route_id" binding:"required"`
	VehicleID *uint                 `json:"vehicle_id"`
	Status    models.EHailingStatus `json:"status" binding:"omitempty,oneof=waiting in_progress completed cancelled delayed"`
	RequestAt *time.Time            `json:"request_at"`
}

type eHailingUpdate struct {
	RouteID   *uint                  `json:"route_id"`
	VehicleID *uint                  `json:"vehicle_id"`
	Status    *models.EHailingStatus `json:"status" binding:"omitempty,oneof=waiting in_progress completed cancelled delayed"`
}

func preloadEHailing(db *gorm.DB) *gorm.DB {
	return db.Preload("Route").Preload("Vehicle").Preload("Student")
}

func (ctl *Controller) ListEHailings(c *gin.Context) {
	ctl.listEHailings(c, ownSchool(c))
}

func (ctl *Controller) ListEHailingsBySchool(c *gin.Context) {
	if id, ok := pathSchool(c); ok {
		ctl.listEHailings(c, id)
	}
}

// listEHailings shows students only their own requests; those lists are
// never cached.
func (ctl *Controller) listEHailings(c *gin.Context, schoolID uint) {
	load := func(q *gorm.DB) (any, error) {
		reqs := []models.EHailing{}
		err := preloadEHailing(scoped(q, schoolID)).Order("request_at desc").Find(&reqs).Error
		return reqs, err
	}

	cl := caller(c)
	if cl.Role == models.RoleStudent {
		data, err := load(ctl.DB.Where("student_id = ?", cl.UserID))
		if err != nil {
			dbFail(c, err, "e-hailing request")
			return
		}
		respond(c, http.StatusOK, data, "")
		return
	}
	ctl.cachedList(c, resEHailing, schoolID, func() (any, error) { return load(ctl.DB) })
}

func (ctl *Controller) GetEHailing(c *gin.Context) {
	if req, ok := ctl.loadEHailing(c); ok {
		respond(c, http.StatusOK, req, "")
	}
}

func (ctl *Controller) CreateEHailing(c *gin.Context) {
	var input eHailingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	schoolID, ok := writeSchool(c, input.SchoolID)
	if !ok {
		return
	}

	cl := caller(c)
	studentID := input.StudentID
	if cl.Role == models.RoleStudent {
		studentID = cl.UserID
		input.VehicleID = nil
		input.Status = models.EHailingWaiting
	}
	if studentID == 0 {
		fail(c, http.StatusBadRequest, "student_id is required")
		return
	}
	if input.Status == "" {
		input.Status = models.EHailingWaiting
	}
	requestAt := time.Now()
	if input.RequestAt != nil {
		requestAt = *input.RequestAt
	}

	if !ctl.belongs(c, &models.Route{}, input.RouteID, schoolID, "route") {
		return
	}
	if input.VehicleID != nil && !ctl.belongs(c, &models.Vehicle{}, *input.VehicleID, schoolID, "vehicle") {
		return
	}

	req := models.EHailing{
		SchoolID:  schoolID,
		StudentID: studentID,
		RouteID:   input.RouteID,
		VehicleID: input.VehicleID,
		Status:    input.Status,
		RequestAt: requestAt,
	}
	if err := ctl.DB.Create(&req).Error; err != nil {
		dbFail(c, err, "e-hailing request")
		return
	}
	preloadEHailing(ctl.DB).First(&req, req.ID)
	ctl.afterEHailingWrite(c, realtime.EHailingCreated, req.SchoolID, req)
	respond(c, http.StatusCreated, req, "e-hailing request created")
}

// UpdateEHailing lets staff change anything; a student may only cancel
// their own request.
func (ctl *Controller) UpdateEHailing(c *gin.Context) {
	req, ok := ctl.loadEHailing(c)
	if !ok {
		return
	}
	var input eHailingUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if caller(c).Role == models.RoleStudent {
		if input.RouteID != nil || input.VehicleID != nil ||
			input.Status == nil || *input.Status != models.EHailingCancelled {
			fail(c, http.StatusForbidden, "students may only cancel their request")
			return
		}
	}

	if input.RouteID != nil {
		if !ctl.belongs(c, &models.Route{}, *input.RouteID, req.SchoolID, "route") {
			return
		}
		req.RouteID = *input.RouteID
	}
	if input.VehicleID != nil {
		if !ctl.belongs(c, &models.Vehicle{}, *input.VehicleID, req.SchoolID, "vehicle") {
			return
		}
		req.VehicleID = input.VehicleID
	}
	if input.Status != nil {
		req.Status = *input.Status
	}

	err := ctl.DB.Model(&req).Select("route_id", "vehicle_id", "status").Updates(map[string]any{
		"route_id":   req.RouteID,
		"vehicle_id": req.VehicleID,
		"status":     req.Status,
	}).Error
	if err != nil {
		dbFail(c, err, "e-hailing request")
		return
	}
	var updated models.EHailing
	if err := preloadEHailing(ctl.DB).First(&updated, req.ID).Error; err != nil {
		dbFail(c, err, "e-hailing request")
		return
	}
	ctl.afterEHailingWrite(c, realtime.EHailingUpdated, updated.SchoolID, updated)
	respond(c, http.StatusOK, updated, "e-hailing request updated")
}

func (ctl *Controller) DeleteEHailing(c *gin.Context) {
	req, ok := ctl.loadEHailing(c)
	if !ok {
		return
	}
	if err := ctl.DB.Delete(&req).Error; err != nil {
		dbFail(c, err, "e-hailing request")
		return
	}
	ctl.afterEHailingWrite(c, realtime.EHailingDeleted, req.SchoolID, gin.H{"id": req.ID})
	respond(c, http.StatusOK, nil, "e-hailing request deleted")
}

func (ctl *Controller) afterEHailingWrite(c *gin.Context, event string, schoolID uint, data any) {
	ctl.invalidate(c.Request.Context(), resEHailing, schoolID)
	if ctl.Hub != nil {
		ctl.Hub.Publish(realtime.Event{Type: event, SchoolID: schoolID, Data: data})
	}
}

// loadEHailing also refuses students access to other students' requests.
func (ctl *Controller) loadEHailing(c *gin.Context) (models.EHailing, bool) {
	var req models.EHailing
	id, ok := parseID(c, "id")
	if !ok {
		return req, false
	}
	if err := preloadEHailing(ctl.DB).First(&req, id).Error; err != nil {
		dbFail(c, err, "e-hailing request")
		return req, false
	}
	if !canTouch(c, req.SchoolID) {
		return req, false
	}
	if cl := caller(c); cl.Role == models.RoleStudent && req.StudentID != cl.UserID {
		fail(c, http.StatusForbidden, "not your request")
		return req, false
	}
	return req, true
}

// belongs checks that the row id of model exists in schoolID.
func (ctl *Controller) belongs(c *gin.Context, model any, id, schoolID uint, what string) bool {
	var n int64
	if err := ctl.DB.Model(model).Where("id = ? AND school_id = ?", id, schoolID).Count(&n).Error; err != nil {
		dbFail(c, err, what)
		return false
	}
	if n == 0 {
		fail(c, http.StatusBadRequest, what+" not found in this school")
		return false
	}
	return true
}
