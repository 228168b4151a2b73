package controllers

import (
	"encoding/binary"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkb"
	"gorm.io/gorm"

	"campushub/internal/models"
)

type routeInput struct {
	SchoolID           uint    `json:"school_id"`
	Name               string  `json:"name" binding:"required"`
	StopIDs            []int64 `json:"stop_ids"`
	EstimateTimeMinute int     `json:"estimate_time_minute" binding:"required,gt=0"`
	Fare               float64 `json:"fare" binding:"gte=0"`
	Geometry           string  `json:"geometry"` // GeoJSON
}

type routeUpdate struct {
	Name               *string  `json:"name" binding:"omitempty,min=1"`
	StopIDs            *[]int64 `json:"stop_ids"`
	EstimateTimeMinute *int     `json:"estimate_time_minute" binding:"omitempty,gt=0"`
	Fare               *float64 `json:"fare" binding:"omitempty,gte=0"`
	Geometry           *string  `json:"geometry"`
}

var errForeignStop = errors.New("every stop must exist and belong to the route's school")

// parseAndConvertGeometry parses a GeoJSON string into WKB bytes
func parseAndConvertGeometry(raw string) ([]byte, error) {
	if raw == "" {
		return nil, nil
	}
	var g geom.T
	if err := gjson.Unmarshal([]byte(raw), &g); err != nil {
		return nil, err
	}
	return wkb.Marshal(g, binary.LittleEndian)
}

// convertWKBToGeoJSON converts WKB bytes into a GeoJSON string
func convertWKBToGeoJSON(wkbBytes []byte) (string, error) {
	if len(wkbBytes) == 0 {
		return "", nil
	}
	g, err := wkb.Unmarshal(wkbBytes)
	if err != nil {
		return "", err
	}
	b, err := gjson.Marshal(g)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// renderRoutes fills GeoJSON and the ordered Stops of each route with a
// single stop query.
func renderRoutes(db *gorm.DB, routes []models.Route) error {
	var ids []int64
	for _, r := range routes {
		ids = append(ids, r.StopIDs...)
	}
	byID := map[uint]models.Stop{}
	if len(ids) > 0 {
		var stops []models.Stop
		if err := db.Where("id IN ?", ids).Find(&stops).Error; err != nil {
			return err
		}
		for _, s := range stops {
			byID[s.ID] = s
		}
	}

	for i := range routes {
		r := &routes[i]
		gj, err := convertWKBToGeoJSON(r.Geometry)
		if err != nil {
			logrus.WithError(err).WithField("route_id", r.ID).Warn("route has unreadable geometry")
		}
		r.GeoJSON = gj
		r.Stops = orderedStops(r.StopIDs, byID)
	}
	return nil
}

// orderedStops follows ids, skipping stops that no longer exist.
func orderedStops(ids pq.Int64Array, byID map[uint]models.Stop) []models.Stop {
	out := make([]models.Stop, 0, len(ids))
	for _, id := range ids {
		if s, ok := byID[uint(id)]; ok {
			out = append(out, s)
		}
	}
	return out
}

// checkStops verifies every id is a stop of schoolID.
func checkStops(db *gorm.DB, schoolID uint, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	unique := map[int64]bool{}
	for _, id := range ids {
		unique[id] = true
	}
	var n int64
	if err := db.Model(&models.Stop{}).Where("id IN ? AND school_id = ?", ids, schoolID).Count(&n).Error; err != nil {
		return err
	}
	if int(n) != len(unique) {
		return errForeignStop
	}
	return nil
}

func (ctl *Controller) ListRoutes(c *gin.Context) {
	ctl.listRoutes(c, ownSchool(c))
}

func (ctl *Controller) ListRoutesBySchool(c *gin.Context) {
	if id, ok := pathSchool(c); ok {
		ctl.listRoutes(c, id)
	}
}

func (ctl *Controller) listRoutes(c *gin.Context, schoolID uint) {
	ctl.cachedList(c, resRoute, schoolID, func() (any, error) {
		routes := []models.Route{}
		if err := scoped(ctl.DB, schoolID).Order("name").Find(&routes).Error; err != nil {
			return nil, err
		}
		return routes, renderRoutes(ctl.DB, routes)
	})
}

func (ctl *Controller) GetRoute(c *gin.Context) {
	route, ok := ctl.loadRoute(c)
	if !ok {
		return
	}
	ctl.respondRoute(c, http.StatusOK, route, "")
}

// CreateRoute stores a route with its ordered stops and optional GeoJSON line.
func (ctl *Controller) CreateRoute(c *gin.Context) {
	var input routeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		logrus.WithError(err).Warn("CreateRoute: invalid input payload")
		fail(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	schoolID, ok := writeSchool(c, input.SchoolID)
	if !ok {
		return
	}

	wkbGeom, err := parseAndConvertGeometry(input.Geometry)
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid geometry: "+err.Error())
		return
	}
	if err := checkStops(ctl.DB, schoolID, input.StopIDs); err != nil {
		ctl.stopError(c, err)
		return
	}

	route := models.Route{
		SchoolID:           schoolID,
		Name:               input.Name,
		StopIDs:            pq.Int64Array(input.StopIDs),
		EstimateTimeMinute: input.EstimateTimeMinute,
		Fare:               input.Fare,
		Geometry:           wkbGeom,
	}
	if err := ctl.DB.Create(&route).Error; err != nil {
		dbFail(c, err, "route")
		return
	}
	ctl.invalidate(c.Request.Context(), resRoute, schoolID)
	ctl.respondRoute(c, http.StatusCreated, route, "route created")
}

func (ctl *Controller) UpdateRoute(c *gin.Context) {
	route, ok := ctl.loadRoute(c)
	if !ok {
		return
	}
	var input routeUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		logrus.WithError(err).Warn("UpdateRoute: invalid input payload")
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if input.StopIDs != nil {
		if err := checkStops(ctl.DB, route.SchoolID, *input.StopIDs); err != nil {
			ctl.stopError(c, err)
			return
		}
	}
	if err := applyRouteUpdates(&route, input); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := ctl.DB.Save(&route).Error; err != nil {
		logrus.WithError(err).Error("UpdateRoute: failed to save updated route")
		dbFail(c, err, "route")
		return
	}
	ctl.invalidate(c.Request.Context(), resRoute, route.SchoolID)
	ctl.respondRoute(c, http.StatusOK, route, "route updated")
}

// applyRouteUpdates updates the route fields present in input.
func applyRouteUpdates(route *models.Route, input routeUpdate) error {
	if input.Name != nil {
		route.Name = *input.Name
	}
	if input.StopIDs != nil {
		route.StopIDs = pq.Int64Array(*input.StopIDs)
	}
	if input.EstimateTimeMinute != nil {
		route.EstimateTimeMinute = *input.EstimateTimeMinute
	}
	if input.Fare != nil {
		route.Fare = *input.Fare
	}
	if input.Geometry != nil {
		wkbGeom, err := parseAndConvertGeometry(*input.Geometry)
		if err != nil {
			return errors.New("Invalid geometry: " + err.Error())
		}
		route.Geometry = wkbGeom
	}
	return nil
}

func (ctl *Controller) DeleteRoute(c *gin.Context) {
	route, ok := ctl.loadRoute(c)
	if !ok {
		return
	}
	if err := ctl.DB.Delete(&route).Error; err != nil {
		dbFail(c, err, "route")
		return
	}
	ctl.invalidate(c.Request.Context(), resRoute, route.SchoolID)
	respond(c, http.StatusOK, nil, "Route deleted successfully")
}

func (ctl *Controller) loadRoute(c *gin.Context) (models.Route, bool) {
	var route models.Route
	id, ok := parseID(c, "id")
	if !ok {
		return route, false
	}
	if err := ctl.DB.First(&route, id).Error; err != nil {
		dbFail(c, err, "route")
		return route, false
	}
	return route, canTouch(c, route.SchoolID)
}

func (ctl *Controller) respondRoute(c *gin.Context, status int, route models.Route, msg string) {
	routes := []models.Route{route}
	if err := renderRoutes(ctl.DB, routes); err != nil {
		dbFail(c, err, "route")
		return
	}
	respond(c, status, routes[0], msg)
}

func (ctl *Controller) stopError(c *gin.Context, err error) {
	if errors.Is(err, errForeignStop) {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	dbFail(c, err, "stop")
}
