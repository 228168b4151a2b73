package routes

import (
	"net/http"

	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"

	"campushub/internal/controllers"
	"campushub/internal/middleware"
)

// SetupRouter wires every CampusHub endpoint onto a fresh engine.
func SetupRouter(ctl *controllers.Controller) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		ginlog.SetLogger(
			ginlog.WithSkipPath([]string{"/healthz"}),
			ginlog.WithUTC(true),
		),
	)
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "not found"})
	})

	r.GET("/healthz", ctl.Health)
	AuthRoutes(r, ctl)
	AdminRoutes(r, ctl)
	TransportRoutes(r, ctl)
	WebSocketRoutes(r, ctl)

	return r
}
