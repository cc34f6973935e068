package main

import (
	"net/http"
	"os"

	"alloplombier-be/config"
	"alloplombier-be/models"
	"alloplombier-be/routes"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	loadErr := godotenv.Load()
	config.InitLogger()
	if loadErr != nil {
		config.Logger.Info("No .env file found")
	}

	db := config.ConnectDB()
	if db == nil {
		config.Logger.Fatal("Failed to connect to MongoDB")
	}
	config.ConnectRedis()

	if err := models.EnsureOfferIndex(config.GetCollection("instant_offers")); err != nil {
		config.Logger.WithError(err).Fatal("Failed to ensure offer index")
	}

	r := gin.Default()

	routes.AuthRoutes(r)
	routes.InstantRoutes(r)
	routes.PlombierRoutes(r)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		config.Logger.WithError(err).Fatal("Failed to start server")
	}
}
