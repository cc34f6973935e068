package routes

import (
	"alloplombier-be/controllers"
	"alloplombier-be/middlewares"

	"github.com/gin-gonic/gin"
)

// AuthRoutes sets up the client authentication routes
func AuthRoutes(r *gin.Engine) {
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", controllers.RegisterClient)
		auth.POST("/login", controllers.LoginClient)
		auth.GET("/me", middlewares.AuthClient(), controllers.GetMe)
	}
}
