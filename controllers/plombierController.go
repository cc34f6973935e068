package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"alloplombier-be/models"
	"alloplombier-be/services"
)

// UpsertPlombierProfile creates or refreshes the calling plombier's profile.
// The document is keyed by the Firebase UID carried in the verified token.
func UpsertPlombierProfile(c *gin.Context) {
	id, ok := plombierIdentity(c)
	if !ok {
		return
	}

	var input struct {
		Name  string `json:"name" binding:"required,max=50"`
		Phone string `json:"phone" binding:"required,e164"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	now := time.Now()
	_, err := plombierCollection.UpdateOne(ctx,
		bson.M{"uid": id.UID},
		bson.M{
			"$set": bson.M{
				"name":      input.Name,
				"phone":     input.Phone,
				"updatedAt": now,
			},
			"$setOnInsert": bson.M{"createdAt": now},
		},
		options.Update().SetUpsert(true))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save profile"})
		return
	}

	var plombier models.Plombier
	if err := plombierCollection.FindOne(ctx, bson.M{"uid": id.UID}).Decode(&plombier); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve profile"})
		return
	}

	c.JSON(http.StatusOK, plombier)
}

// ReverseLookup resolves coordinates to an address and city for the plombier
// app. "No match" is a normal outcome, answered with nulls.
func ReverseLookup(c *gin.Context) {
	var input struct {
		Lat *float64 `form:"lat" binding:"required,gte=-90,lte=90"`
		Lng *float64 `form:"lng" binding:"required,gte=-180,lte=180"`
	}
	if err := c.ShouldBindQuery(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	place := services.ReverseGeocode(c.Request.Context(), *input.Lat, *input.Lng)
	if place == nil {
		c.JSON(http.StatusOK, gin.H{"address": nil, "city": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"address": place.Address, "city": place.City})
}
