package routes

import (
	"github.com/gin-gonic/gin"

	"campushub/internal/controllers"
)

// WebSocketRoutes authenticate inside the handler from ?token=.
func WebSocketRoutes(r *gin.Engine, ctl *controllers.Controller) {
	ws := r.Group("/ws")
	{
		ws.GET("/e-hailing", ctl.HandleEHailingWebSocket)
	}
}
