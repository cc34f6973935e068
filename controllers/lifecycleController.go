package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"alloplombier-be/models"
	"alloplombier-be/services"
)

// MarkArrived records the assigned plombier's arrival and notifies the
// client.
func MarkArrived(c *gin.Context) {
	id, ok := plombierIdentity(c)
	if !ok {
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
	if !request.CanTransition(models.StatusArrived) {
		conflictResponse(c)
		return
	}

	now := time.Now()
	result, err := requestCollection.UpdateOne(ctx,
		bson.M{"_id": request.ID, "status": models.StatusAccepted},
		bson.M{"$set": bson.M{
			"status":    models.StatusArrived,
			"arrivedAt": now,
			"updatedAt": now,
		}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update request"})
		return
	}
	if result.ModifiedCount == 0 {
		conflictResponse(c)
		return
	}

	services.GetNotifier().Dispatch(request.ClientID.Hex(),
		"Le plombier est arrivé",
		"Votre plombier est arrivé à l'adresse indiquée.",
		map[string]string{"requestId": request.ID.Hex(), "type": "arrived"})

	c.JSON(http.StatusOK, gin.H{"message": "Arrival recorded"})
}

// MarkClientReady records that the client is ready to receive the plombier
// and notifies the assigned plombier. This is a timestamp, not a state.
func MarkClientReady(c *gin.Context) {
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
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to update this request"})
		return
	}
	if !request.StatusIs(models.StatusAccepted) {
		conflictResponse(c)
		return
	}

	now := time.Now()
	result, err := requestCollection.UpdateOne(ctx,
		bson.M{"_id": request.ID, "status": models.StatusAccepted},
		bson.M{"$set": bson.M{
			"clientReadyAt": now,
			"updatedAt":     now,
		}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update request"})
		return
	}
	if result.MatchedCount == 0 {
		conflictResponse(c)
		return
	}

	if request.PlombierID != nil {
		services.GetNotifier().Dispatch(*request.PlombierID,
			"Client prêt",
			"Le client est prêt à vous recevoir.",
			map[string]string{"requestId": request.ID.Hex(), "type": "client_ready"})
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ready state recorded"})
}

// StartJob moves an arrived request into in_progress.
func StartJob(c *gin.Context) {
	id, ok := plombierIdentity(c)
	if !ok {
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
	if !request.CanTransition(models.StatusInProgress) {
		conflictResponse(c)
		return
	}

	now := time.Now()
	result, err := requestCollection.UpdateOne(ctx,
		bson.M{"_id": request.ID, "status": models.StatusArrived},
		bson.M{"$set": bson.M{
			"status":    models.StatusInProgress,
			"updatedAt": now,
		}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update request"})
		return
	}
	if result.ModifiedCount == 0 {
		conflictResponse(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Job started"})
}

// CompleteJob closes the request once the intervention is done and notifies
// the client.
func CompleteJob(c *gin.Context) {
	id, ok := plombierIdentity(c)
	if !ok {
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
	if !request.CanTransition(models.StatusCompleted) {
		conflictResponse(c)
		return
	}

	now := time.Now()
	result, err := requestCollection.UpdateOne(ctx,
		bson.M{
			"_id":    request.ID,
			"status": bson.M{"$in": []models.RequestStatus{models.StatusArrived, models.StatusInProgress}},
		},
		bson.M{"$set": bson.M{
			"status":      models.StatusCompleted,
			"completedAt": now,
			"updatedAt":   now,
		}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update request"})
		return
	}
	if result.ModifiedCount == 0 {
		conflictResponse(c)
		return
	}

	services.GetNotifier().Dispatch(request.ClientID.Hex(),
		"Intervention terminée",
		"Votre plombier a terminé l'intervention.",
		map[string]string{"requestId": request.ID.Hex(), "type": "completed"})

	c.JSON(http.StatusOK, gin.H{"message": "Request completed"})
}
