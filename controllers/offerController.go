package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"alloplombier-be/models"
	"alloplombier-be/services"
)

// CreateOffer records a plombier's bid on a pending request and notifies the
// client. A plombier can bid once per request.
func CreateOffer(c *gin.Context) {
	id, ok := plombierIdentity(c)
	if !ok {
		return
	}

	var input struct {
		Price   *float64 `json:"price,omitempty" binding:"omitempty,gte=0"`
		Message string   `json:"message,omitempty" binding:"max=500"`
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

	if !request.StatusIs(models.StatusPending) {
		conflictResponse(c)
		return
	}

	offer := models.InstantOffer{
		ID:         primitive.NewObjectID(),
		RequestID:  request.ID,
		PlombierID: id.UID,
		Price:      input.Price,
		Message:    input.Message,
		CreatedAt:  time.Now(),
	}

	if _, err := offerCollection.InsertOne(ctx, offer); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "You already made an offer on this request"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create offer"})
		return
	}

	services.GetNotifier().Dispatch(request.ClientID.Hex(),
		"Nouvelle offre",
		"Un plombier a fait une offre sur votre demande.",
		map[string]string{"requestId": request.ID.Hex(), "offerId": offer.ID.Hex(), "type": "new_offer"})

	c.JSON(http.StatusCreated, offer)
}

// ListOffers returns the offers on a request to its owning client.
func ListOffers(c *gin.Context) {
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
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to view these offers"})
		return
	}

	cursor, err := offerCollection.Find(ctx, bson.M{"requestId": request.ID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve offers"})
		return
	}
	defer cursor.Close(ctx)

	offers := make([]models.InstantOffer, 0)
	if err := cursor.All(ctx, &offers); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode offers"})
		return
	}

	c.JSON(http.StatusOK, offers)
}

// AcceptOffer lets the owning client pick the winning offer. The transition
// is a conditional update on the pending status, so exactly one acceptance
// can ever commit per request.
func AcceptOffer(c *gin.Context) {
	_, clientID, ok := clientIdentity(c)
	if !ok {
		return
	}

	var input struct {
		OfferID string `json:"offerId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	offerID, err := primitive.ObjectIDFromHex(input.OfferID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid offer ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	request, ok := loadRequest(ctx, c)
	if !ok {
		return
	}

	if !request.OwnedBy(clientID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to accept offers on this request"})
		return
	}
	if !request.CanTransition(models.StatusAccepted) {
		conflictResponse(c)
		return
	}

	var offer models.InstantOffer
	err = offerCollection.FindOne(ctx, bson.M{"_id": offerID, "requestId": request.ID}).Decode(&offer)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Offer not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve offer"})
		}
		return
	}

	now := time.Now()
	result, err := requestCollection.UpdateOne(ctx,
		bson.M{"_id": request.ID, "status": models.StatusPending},
		bson.M{"$set": bson.M{
			"status":     models.StatusAccepted,
			"plombierId": offer.PlombierID,
			"acceptedAt": now,
			"updatedAt":  now,
		}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept offer"})
		return
	}
	if result.ModifiedCount == 0 {
		// Lost the race against a concurrent transition.
		conflictResponse(c)
		return
	}

	services.GetNotifier().Dispatch(offer.PlombierID,
		"Offre acceptée",
		"Votre offre a été acceptée. Le client vous attend.",
		map[string]string{"requestId": request.ID.Hex(), "type": "offer_accepted"})

	c.JSON(http.StatusOK, gin.H{"message": "Offer accepted successfully"})
}
