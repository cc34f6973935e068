package routes

import (
	"alloplombier-be/controllers"
	"alloplombier-be/middlewares"

	"github.com/gin-gonic/gin"
)

// PlombierRoutes sets up plombier profile and geo helper routes
func PlombierRoutes(r *gin.Engine) {
	plombier := r.Group("/api/plombier")
	{
		plombier.POST("/profile", middlewares.AuthPlombier(), controllers.UpsertPlombierProfile)
		plombier.GET("/geo/reverse", middlewares.AuthPlombier(), controllers.ReverseLookup)
	}

	device := r.Group("/api/device")
	{
		device.POST("/register", middlewares.AuthAny(), controllers.RegisterDevice)
	}
}
