package routes

import (
	"github.com/gin-gonic/gin"

	"campushub/internal/controllers"
	"campushub/internal/middleware"
	"campushub/internal/models"
)

// AdminRoutes manages the tenants themselves.
func AdminRoutes(r *gin.Engine, ctl *controllers.Controller) {
	school := r.Group("/api/school")
	school.Use(ctl.Auth.RequireAuth(), middleware.RequireRole(models.RoleAdmin, models.RoleCompanyAdmin))
	{
		school.GET("", ctl.ListSchools)
		school.POST("", ctl.CreateSchool)
		school.GET("/:id", ctl.GetSchool)
		school.PUT("/:id", ctl.UpdateSchool)
		school.DELETE("/:id", ctl.DeleteSchool)
	}
}
