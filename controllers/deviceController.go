package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"alloplombier-be/middlewares"
)

// RegisterDevice stores a push delivery token on the caller's account. Stale
// tokens are expected to be replaced by the client on its next registration
// cycle, so duplicates are avoided but nothing is pruned here.
func RegisterDevice(c *gin.Context) {
	id, ok := middlewares.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	now := time.Now()
	switch id.Role {
	case middlewares.RoleClient:
		oid, err := primitive.ObjectIDFromHex(id.UID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
			return
		}
		_, err = clientCollection.UpdateOne(ctx,
			bson.M{"_id": oid},
			bson.M{
				"$addToSet": bson.M{"deviceTokens": input.Token},
				"$set":      bson.M{"updatedAt": now},
			})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register device"})
			return
		}
	case middlewares.RolePlombier:
		// The plombier profile may not exist yet on first registration.
		_, err := plombierCollection.UpdateOne(ctx,
			bson.M{"uid": id.UID},
			bson.M{
				"$addToSet":    bson.M{"deviceTokens": input.Token},
				"$set":         bson.M{"updatedAt": now},
				"$setOnInsert": bson.M{"createdAt": now},
			},
			options.Update().SetUpsert(true))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register device"})
			return
		}
	default:
		c.JSON(http.StatusForbidden, gin.H{"error": "Unknown caller role"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Device registered"})
}
