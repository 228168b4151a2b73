package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"campushub/internal/cache"
	"campushub/internal/middleware"
	"campushub/internal/realtime"
	"campushub/internal/session"
	"campushub/internal/storage"
)

// Cache namespaces for list responses.
const (
	resStop        = "stop"
	resRoute       = "route"
	resVehicle     = "vehicle"
	resBusSchedule = "bus_schedule"
	resEHailing    = "e_hailing"
)

// Controller holds what every handler needs. Cache, Hub and Images may be
// left nil; New fills in no-op versions.
type Controller struct {
	DB       *gorm.DB
	Auth     *middleware.Auth
	Cache    cache.Cache
	CacheTTL time.Duration
	Hub      *realtime.Hub
	Images   storage.ImageStore
}

func New(db *gorm.DB, auth *middleware.Auth, opts ...Option) *Controller {
	ctl := &Controller{
		DB:       db,
		Auth:     auth,
		Cache:    cache.Nop{},
		CacheTTL: time.Minute,
		Images:   storage.Disabled{},
	}
	for _, o := range opts {
		o(ctl)
	}
	return ctl
}

type Option func(*Controller)

func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(ctl *Controller) { ctl.Cache, ctl.CacheTTL = c, ttl }
}

func WithHub(h *realtime.Hub) Option {
	return func(ctl *Controller) { ctl.Hub = h }
}

func WithImages(s storage.ImageStore) Option {
	return func(ctl *Controller) { ctl.Images = s }
}

func respond(c *gin.Context, status int, data any, msg string) {
	c.JSON(status, gin.H{"success": true, "data": data, "message": msg})
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "message": msg})
}

// dbFail maps a gorm error onto 404 or 500.
func dbFail(c *gin.Context, err error, what string) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		fail(c, http.StatusNotFound, what+" not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		fail(c, http.StatusConflict, what+" already exists")
	default:
		logrus.WithError(err).WithField("path", c.FullPath()).Error("database error")
		fail(c, http.StatusInternalServerError, "database error")
	}
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		fail(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

func caller(c *gin.Context) *session.Claims {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		return &session.Claims{}
	}
	return claims
}

// ownSchool is the caller's school when the role is tenant-scoped, else 0.
func ownSchool(c *gin.Context) uint {
	cl := caller(c)
	if cl.Role.TenantScoped() {
		return cl.SchoolID
	}
	return 0
}

// pathSchool reads :schoolId and refuses other tenants' schools.
func pathSchool(c *gin.Context) (uint, bool) {
	id, ok := parseID(c, "schoolId")
	if !ok {
		return 0, false
	}
	if own := ownSchool(c); own != 0 && own != id {
		fail(c, http.StatusForbidden, "cannot access another school")
		return 0, false
	}
	return id, true
}

// writeSchool picks the school a new record belongs to: tenant callers always
// write to their own, admins must name one.
func writeSchool(c *gin.Context, given uint) (uint, bool) {
	if own := ownSchool(c); own != 0 {
		return own, true
	}
	if caller(c).Role.TenantScoped() {
		fail(c, http.StatusForbidden, "account is not attached to a school")
		return 0, false
	}
	if given == 0 {
		fail(c, http.StatusBadRequest, "school_id is required")
		return 0, false
	}
	return given, true
}

// canTouch refuses records of other schools for tenant callers.
func canTouch(c *gin.Context, recordSchool uint) bool {
	if own := ownSchool(c); own != 0 && own != recordSchool {
		fail(c, http.StatusForbidden, "cannot access another school")
		return false
	}
	return true
}

// scoped narrows q to schoolID unless it is 0.
func scoped(q *gorm.DB, schoolID uint) *gorm.DB {
	if schoolID == 0 {
		return q
	}
	return q.Where("school_id = ?", schoolID)
}

// cachedList serves the list from cache or renders it with load and caches
// the envelope.
func (ctl *Controller) cachedList(c *gin.Context, resource string, schoolID uint, load func() (any, error)) {
	ctx := c.Request.Context()
	key := cache.ListKey(resource, schoolID)

	if raw, err := ctl.Cache.Get(ctx, key); err == nil {
		c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
		return
	} else if !errors.Is(err, cache.ErrNotFound) {
		logrus.WithError(err).WithField("key", key).Warn("cache read failed")
	}

	data, err := load()
	if err != nil {
		dbFail(c, err, resource)
		return
	}
	raw, err := json.Marshal(gin.H{"success": true, "data": data})
	if err != nil {
		fail(c, http.StatusInternalServerError, "could not encode response")
		return
	}
	if err := ctl.Cache.Set(ctx, key, raw, ctl.CacheTTL); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("cache write failed")
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}

func (ctl *Controller) invalidate(ctx context.Context, resource string, schoolID uint) {
	if err := cache.InvalidateLists(ctx, ctl.Cache, resource, schoolID); err != nil {
		logrus.WithError(err).WithField("resource", resource).Warn("cache invalidation failed")
	}
}

// Health reports database reachability.
func (ctl *Controller) Health(c *gin.Context) {
	sqlDB, err := ctl.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		fail(c, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	respond(c, http.StatusOK, gin.H{"status": "ok"}, "")
}
