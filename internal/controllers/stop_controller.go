package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"campushub/internal/models"
	"campushub/internal/storage"
)

type stopInput struct {
	SchoolID uint            `json:"school_id"`
	Name     string          `json:"name" binding:"required"`
	Type     models.StopType `json:"type" binding:"required,oneof=dorm campus bus_station"`
	Image    string          `json:"image"`
	Lat      float64         `json:"lat" binding:"gte=-90,lte=90"`
	Lng      float64         `json:"lng" binding:"gte=-180,lte=180"`
}

type stopUpdate struct {
	Name  *string          `json:"name" binding:"omitempty,min=1"`
	Type  *models.StopType `json:"type" binding:"omitempty,oneof=dorm campus bus_station"`
	Image *string          `json:"image"`
	Lat   *float64         `json:"lat" binding:"omitempty,gte=-90,lte=90"`
	Lng   *float64         `json:"lng" binding:"omitempty,gte=-180,lte=180"`
}

func (ctl *Controller) ListStops(c *gin.Context) {
	ctl.listStops(c, ownSchool(c))
}

func (ctl *Controller) ListStopsBySchool(c *gin.Context) {
	if id, ok := pathSchool(c); ok {
		ctl.listStops(c, id)
	}
}

func (ctl *Controller) listStops(c *gin.Context, schoolID uint) {
	ctl.cachedList(c, resStop, schoolID, func() (any, error) {
		stops := []models.Stop{}
		err := scoped(ctl.DB, schoolID).Order("name").Find(&stops).Error
		return stops, err
	})
}

func (ctl *Controller) GetStop(c *gin.Context) {
	stop, ok := ctl.loadStop(c)
	if !ok {
		return
	}
	respond(c, http.StatusOK, stop, "")
}

func (ctl *Controller) CreateStop(c *gin.Context) {
	var input stopInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	schoolID, ok := writeSchool(c, input.SchoolID)
	if !ok {
		return
	}

	stop := models.Stop{
		SchoolID: schoolID,
		Name:     input.Name,
		Type:     input.Type,
		Image:    input.Image,
		Lat:      input.Lat,
		Lng:      input.Lng,
	}
	if err := ctl.DB.Create(&stop).Error; err != nil {
		dbFail(c, err, "stop")
		return
	}
	ctl.invalidate(c.Request.Context(), resStop, schoolID)
	respond(c, http.StatusCreated, stop, "stop created")
}

func (ctl *Controller) UpdateStop(c *gin.Context) {
	stop, ok := ctl.loadStop(c)
	if !ok {
		return
	}
	var input stopUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	applyStopUpdates(&stop, input)

	if err := ctl.DB.Save(&stop).Error; err != nil {
		dbFail(c, err, "stop")
		return
	}
	ctl.invalidate(c.Request.Context(), resStop, stop.SchoolID)
	respond(c, http.StatusOK, stop, "stop updated")
}

func applyStopUpdates(stop *models.Stop, input stopUpdate) {
	if input.Name != nil {
		stop.Name = *input.Name
	}
	if input.Type != nil {
		stop.Type = *input.Type
	}
	if input.Image != nil {
		stop.Image = *input.Image
	}
	if input.Lat != nil {
		stop.Lat = *input.Lat
	}
	if input.Lng != nil {
		stop.Lng = *input.Lng
	}
}

func (ctl *Controller) DeleteStop(c *gin.Context) {
	stop, ok := ctl.loadStop(c)
	if !ok {
		return
	}
	var inUse int64
	if err := ctl.DB.Model(&models.Route{}).Where("? = ANY(stop_ids)", stop.ID).Count(&inUse).Error; err != nil {
		dbFail(c, err, "stop")
		return
	}
	if inUse > 0 {
		fail(c, http.StatusConflict, "stop is used by a route")
		return
	}
	if err := ctl.DB.Delete(&stop).Error; err != nil {
		dbFail(c, err, "stop")
		return
	}
	ctl.invalidate(c.Request.Context(), resStop, stop.SchoolID)
	respond(c, http.StatusOK, nil, "stop deleted")
}

// UploadStopImage stores the multipart "image" field and saves its URL on
// the stop.
func (ctl *Controller) UploadStopImage(c *gin.Context) {
	stop, ok := ctl.loadStop(c)
	if !ok {
		return
	}
	fh, err := c.FormFile("image")
	if err != nil {
		fail(c, http.StatusBadRequest, "image file is required")
		return
	}
	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		fail(c, http.StatusBadRequest, "file must be an image")
		return
	}
	f, err := fh.Open()
	if err != nil {
		fail(c, http.StatusBadRequest, "could not read upload")
		return
	}
	defer f.Close()

	url, err := ctl.Images.Upload(c.Request.Context(), storage.StopImageKey(stop.SchoolID, stop.ID, fh.Filename), f, contentType)
	if err != nil {
		if errors.Is(err, storage.ErrNoImageStore) {
			fail(c, http.StatusServiceUnavailable, err.Error())
			return
		}
		logrus.WithError(err).WithField("stop_id", stop.ID).Error("UploadStopImage: upload failed")
		fail(c, http.StatusBadGateway, "image upload failed")
		return
	}

	stop.Image = url
	if err := ctl.DB.Model(&stop).Update("image", url).Error; err != nil {
		dbFail(c, err, "stop")
		return
	}
	ctl.invalidate(c.Request.Context(), resStop, stop.SchoolID)
	respond(c, http.StatusOK, stop, "image uploaded")
}

func (ctl *Controller) loadStop(c *gin.Context) (models.Stop, bool) {
	var stop models.Stop
	id, ok := parseID(c, "id")
	if !ok {
		return stop, false
	}
	if err := ctl.DB.First(&stop, id).Error; err != nil {
		dbFail(c, err, "stop")
		return stop, false
	}
	return stop, canTouch(c, stop.SchoolID)
}
