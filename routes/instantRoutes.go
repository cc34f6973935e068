package routes

import (
	"time"

	"alloplombier-be/controllers"
	"alloplombier-be/middlewares"

	"github.com/gin-gonic/gin"
)

// InstantRoutes sets up the instant-request lifecycle routes
func InstantRoutes(r *gin.Engine) {
	instant := r.Group("/api/instant")
	{
		// Client side
		instant.POST("/create",
			middlewares.AuthClient(),
			middlewares.ActionRateLimiter("instant_create", 10, 24*time.Hour),
			controllers.CreateInstantRequest)
		instant.POST("/:id/photos", middlewares.AuthClient(), controllers.AddPhotos)
		instant.POST("/:id/accept", middlewares.AuthClient(), controllers.AcceptOffer)
		instant.POST("/:id/cancel", middlewares.AuthClient(), controllers.CancelRequest)
		instant.POST("/:id/ready", middlewares.AuthClient(), controllers.MarkClientReady)
		instant.GET("/:id/offers", middlewares.AuthClient(), controllers.ListOffers)
		instant.GET("/:id/location", middlewares.AuthClient(), controllers.GetLocation)

		// Plombier side
		instant.GET("/pending", middlewares.AuthPlombier(), controllers.PendingRequests)
		instant.POST("/:id/offer",
			middlewares.AuthPlombier(),
			middlewares.ActionRateLimiter("instant_offer", 100, 24*time.Hour),
			controllers.CreateOffer)
		instant.POST("/:id/request-photos", middlewares.AuthPlombier(), controllers.RequestPhotos)
		instant.POST("/:id/arrived", middlewares.AuthPlombier(), controllers.MarkArrived)
		instant.POST("/:id/start", middlewares.AuthPlombier(), controllers.StartJob)
		instant.POST("/:id/complete", middlewares.AuthPlombier(), controllers.CompleteJob)
		instant.PUT("/:id/location", middlewares.AuthPlombier(), controllers.UpdateLocation)

		// Either side
		instant.GET("/:id", middlewares.AuthAny(), controllers.GetInstantRequest)
	}
}
