package routes

import (
	"github.com/gin-gonic/gin"

	"campushub/internal/controllers"
	"campushub/internal/middleware"
	"campushub/internal/models"
)

type resourceHandlers struct {
	list, listBySchool, get, create, update, remove gin.HandlerFunc
}

// mount registers the six standard endpoints of a resource. Reads are open
// to any signed-in user; writes need one of writers.
func mount(g *gin.RouterGroup, h resourceHandlers, writers ...models.Role) {
	canWrite := middleware.RequireRole(writers...)

	g.GET("", h.list)
	g.GET("/school/:schoolId", h.listBySchool)
	g.GET("/:id", h.get)
	g.POST("", canWrite, h.create)
	g.PUT("/:id", canWrite, h.update)
	g.DELETE("/:id", canWrite, h.remove)
}

func TransportRoutes(r *gin.Engine, ctl *controllers.Controller) {
	api := r.Group("/api")
	api.Use(ctl.Auth.RequireAuth())

	staff := []models.Role{models.RoleAdmin, models.RoleCompanyAdmin, models.RoleSchoolAdmin}

	stop := api.Group("/stop")
	mount(stop, resourceHandlers{
		ctl.ListStops, ctl.ListStopsBySchool, ctl.GetStop,
		ctl.CreateStop, ctl.UpdateStop, ctl.DeleteStop,
	}, staff...)
	stop.POST("/:id/image", middleware.RequireRole(staff...), ctl.UploadStopImage)

	mount(api.Group("/route"), resourceHandlers{
		ctl.ListRoutes, ctl.ListRoutesBySchool, ctl.GetRoute,
		ctl.CreateRoute, ctl.UpdateRoute, ctl.DeleteRoute,
	}, staff...)

	mount(api.Group("/vehicle"), resourceHandlers{
		ctl.ListVehicles, ctl.ListVehiclesBySchool, ctl.GetVehicle,
		ctl.CreateVehicle, ctl.UpdateVehicle, ctl.DeleteVehicle,
	}, staff...)

	mount(api.Group("/bus-schedule"), resourceHandlers{
		ctl.ListBusSchedules, ctl.ListBusSchedulesBySchool, ctl.GetBusSchedule,
		ctl.CreateBusSchedule, ctl.UpdateBusSchedule, ctl.DeleteBusSchedule,
	}, staff...)

	// Students create and cancel their own requests; deletion stays with staff.
	ehailing := api.Group("/e-hailing")
	ehailing.GET("", ctl.ListEHailings)
	ehailing.GET("/school/:schoolId", ctl.ListEHailingsBySchool)
	ehailing.GET("/:id", ctl.GetEHailing)
	ehailing.POST("", ctl.CreateEHailing)
	ehailing.PUT("/:id", ctl.UpdateEHailing)
	ehailing.DELETE("/:id", middleware.RequireRole(staff...), ctl.DeleteEHailing)
}
