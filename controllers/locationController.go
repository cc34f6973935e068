package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"alloplombier-be/models"
)

// UpdateLocation overwrites the current position snapshot for a request. Only
// the assigned plombier may publish, and only while the job is live. No
// history is kept.
func UpdateLocation(c *gin.Context) {
	id, ok := plombierIdentity(c)
	if !ok {
		return
	}

	var input struct {
		Latitude  *float64 `json:"latitude" binding:"required,gte=-90,lte=90"`
		Longitude *float64 `json:"longitude" binding:"required,gte=-180,lte=180"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	request, ok := loadRequest(ctx, c)
	if !ok {
		return
	}

	if !request.AssignedTo(id.UID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not assigned to this request"})
		return
	}
	if !request.StatusIs(models.StatusAccepted, models.StatusArrived, models.StatusInProgress) {
		conflictResponse(c)
		return
	}

	location := models.PlombierLocation{
		Latitude:  *input.Latitude,
		Longitude: *input.Longitude,
		UpdatedAt: time.Now(),
	}
	result, err := requestCollection.UpdateOne(ctx,
		bson.M{
			"_id":    request.ID,
			"status": bson.M{"$in": []models.RequestStatus{models.StatusAccepted, models.StatusArrived, models.StatusInProgress}},
		},
		bson.M{"$set": bson.M{"plombierLocation": location}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update location"})
		return
	}
	if result.MatchedCount == 0 {
		conflictResponse(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Location updated"})
}

// GetLocation returns the latest known plombier position for a request, or
// nulls if none was ever published. Staleness is the caller's concern.
func GetLocation(c *gin.Context) {
	_, clientID, ok := clientIdentity(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	request, ok := loadRequest(ctx, c)
	if !ok {
		return
	}

	if !request.OwnedBy(clientID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to view this request"})
		return
	}

	if request.PlombierLocation == nil {
		c.JSON(http.StatusOK, gin.H{
			"latitude":  nil,
			"longitude": nil,
			"updatedAt": nil,
		})
		return
	}

	c.JSON(http.StatusOK, request.PlombierLocation)
}
