package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"alloplombier-be/middlewares"
	"alloplombier-be/models"
	"alloplombier-be/services"

	"alloplombier-be/config"
	"alloplombier-be/utils"
)

var requestCollection *mongo.Collection = config.GetCollection("instant_requests")
var offerCollection *mongo.Collection = config.GetCollection("instant_offers")
var clientCollection *mongo.Collection = config.GetCollection("clients")
var plombierCollection *mongo.Collection = config.GetCollection("plombiers")

// clientIdentity extracts the verified client caller, or writes the error
// response and reports false.
func clientIdentity(c *gin.Context) (middlewares.Identity, primitive.ObjectID, bool) {
	id, ok := middlewares.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return middlewares.Identity{}, primitive.NilObjectID, false
	}
	oid, err := primitive.ObjectIDFromHex(id.UID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return middlewares.Identity{}, primitive.NilObjectID, false
	}
	return id, oid, true
}

// plombierIdentity extracts the verified plombier caller.
func plombierIdentity(c *gin.Context) (middlewares.Identity, bool) {
	id, ok := middlewares.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return middlewares.Identity{}, false
	}
	return id, true
}

// loadRequest fetches the request addressed by the :id route param, or writes
// the error response and reports false.
func loadRequest(ctx context.Context, c *gin.Context) (models.InstantRequest, bool) {
	requestID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return models.InstantRequest{}, false
	}

	var request models.InstantRequest
	err = requestCollection.FindOne(ctx, bson.M{"_id": requestID}).Decode(&request)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve request"})
		}
		return models.InstantRequest{}, false
	}
	return request, true
}

// conflictResponse is the uniform answer when a status guard or conditional
// update rejects a transition.
func conflictResponse(c *gin.Context) {
	c.JSON(http.StatusConflict, gin.H{"error": "This request can no longer be modified"})
}

// CreateInstantRequest opens a new urgent request for the calling client. The
// address is geocoded synchronously; a failed lookup leaves the coordinates
// empty rather than failing the creation.
func CreateInstantRequest(c *gin.Context) {
	_, clientID, ok := clientIdentity(c)
	if !ok {
		return
	}

	var input struct {
		Address string   `json:"address" binding:"required,max=300"`
		Problem string   `json:"problem" binding:"required,max=1000"`
		Photos  []string `json:"photos,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	for _, photo := range input.Photos {
		if err := models.ValidatePhoto(photo); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	request := models.InstantRequest{
		ID:        primitive.NewObjectID(),
		ClientID:  clientID,
		Status:    models.StatusPending,
		Address:   input.Address,
		Problem:   input.Problem,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	request.AppendPhotos(input.Photos)

	if point := services.Geocode(c.Request.Context(), input.Address); point != nil {
		request.Latitude = &point.Latitude
		request.Longitude = &point.Longitude
		request.City = point.City
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := requestCollection.InsertOne(ctx, request); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create request"})
		return
	}

	c.JSON(http.StatusCreated, request)
}

// GetInstantRequest returns one request to its owning client or its assigned
// plombier.
func GetInstantRequest(c *gin.Context) {
	id, ok := middlewares.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	request, ok := loadRequest(ctx, c)
	if !ok {
		return
	}

	allowed := false
	switch id.Role {
	case middlewares.RoleClient:
		if oid, err := primitive.ObjectIDFromHex(id.UID); err == nil {
			allowed = request.OwnedBy(oid)
		}
	case middlewares.RolePlombier:
		// Unassigned pending requests are visible to any plombier browsing
		// the board; after assignment only the assigned one may look.
		allowed = request.AssignedTo(id.UID) || request.Status == models.StatusPending
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to view this request"})
		return
	}

	c.JSON(http.StatusOK, request)
}

// PendingRequests lists open requests for plombiers. When the caller provides
// its position, each entry carries the distance and an ETA estimate.
func PendingRequests(c *gin.Context) {
	var callerLat, callerLng *float64
	var pos struct {
		Lat *float64 `form:"lat"`
		Lng *float64 `form:"lng"`
	}
	if err := c.ShouldBindQuery(&pos); err == nil {
		callerLat, callerLng = pos.Lat, pos.Lng
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Photos are excluded from listings; they can be megabytes per request.
	projection := bson.M{"photos": 0}
	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(50).
		SetProjection(projection)

	cursor, err := requestCollection.Find(ctx, bson.M{"status": models.StatusPending}, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve requests"})
		return
	}
	defer cursor.Close(ctx)

	var requests []models.InstantRequest
	if err := cursor.All(ctx, &requests); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode requests"})
		return
	}

	type PendingEntry struct {
		models.InstantRequest
		DistanceKm        *float64 `json:"distanceKm,omitempty"`
		DistanceFormatted *string  `json:"distanceFormatted,omitempty"`
		EtaMinutes        *int     `json:"etaMinutes,omitempty"`
		EtaFormatted      *string  `json:"etaFormatted,omitempty"`
	}

	entries := make([]PendingEntry, 0, len(requests))
	for _, request := range requests {
		entry := PendingEntry{InstantRequest: request}
		if callerLat != nil && callerLng != nil && request.Latitude != nil && request.Longitude != nil {
			distance := utils.DistanceKm(*callerLat, *callerLng, *request.Latitude, *request.Longitude)
			eta := utils.ETAMinutes(distance)
			formattedDistance := utils.FormatDistance(distance)
			formattedEta := utils.FormatETA(eta)
			entry.DistanceKm = &distance
			entry.EtaMinutes = &eta
			entry.DistanceFormatted = &formattedDistance
			entry.EtaFormatted = &formattedEta
		}
		entries = append(entries, entry)
	}

	c.JSON(http.StatusOK, entries)
}

// AddPhotos appends client photos to a pending request. The list is capped at
// five entries; overflow is dropped without an error.
func AddPhotos(c *gin.Context) {
	_, clientID, ok := clientIdentity(c)
	if !ok {
		return
	}

	var input struct {
		Photos []string `json:"photos" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	for _, photo := range input.Photos {
		if err := models.ValidatePhoto(photo); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
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
	if !request.StatusIs(models.StatusPending) {
		conflictResponse(c)
		return
	}

	stored := request.AppendPhotos(input.Photos)

	update := bson.M{"$set": bson.M{
		"photos":    request.Photos,
		"updatedAt": time.Now(),
	}}
	result, err := requestCollection.UpdateOne(ctx,
		bson.M{"_id": request.ID, "status": models.StatusPending}, update)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update request"})
		return
	}
	if result.MatchedCount == 0 {
		conflictResponse(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Photos added successfully",
		"stored":  stored,
		"total":   len(request.Photos),
	})
}

// RequestPhotos lets any plombier ask the client for photos of the problem,
// once per request.
func RequestPhotos(c *gin.Context) {
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

	if !request.CanRequestPhotos() {
		if request.PhotoRequested {
			c.JSON(http.StatusConflict, gin.H{"error": "Photos have already been requested"})
		} else {
			conflictResponse(c)
		}
		return
	}

	now := time.Now()
	update := bson.M{"$set": bson.M{
		"photoRequested":   true,
		"photoRequestedBy": id.UID,
		"photoRequestedAt": now,
		"updatedAt":        now,
	}}
	result, err := requestCollection.UpdateOne(ctx, bson.M{
		"_id":            request.ID,
		"status":         models.StatusPending,
		"photoRequested": false,
	}, update)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update request"})
		return
	}
	if result.ModifiedCount == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Photos have already been requested"})
		return
	}

	services.GetNotifier().Dispatch(request.ClientID.Hex(),
		"Photos demandées",
		"Un plombier souhaite voir des photos du problème avant de faire une offre.",
		map[string]string{"requestId": request.ID.Hex(), "type": "photo_request"})

	c.JSON(http.StatusOK, gin.H{"message": "Photo request sent"})
}

// CancelRequest cancels a pending request and notifies every plombier that
// had an offer on it. Notification failures never affect the cancellation.
func CancelRequest(c *gin.Context) {
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
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to cancel this request"})
		return
	}
	if !request.StatusIs(models.StatusPending) {
		conflictResponse(c)
		return
	}

	now := time.Now()
	result, err := requestCollection.UpdateOne(ctx,
		bson.M{"_id": request.ID, "status": models.StatusPending},
		bson.M{"$set": bson.M{
			"status":      models.StatusCancelled,
			"cancelledAt": now,
			"updatedAt":   now,
		}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel request"})
		return
	}
	if result.ModifiedCount == 0 {
		conflictResponse(c)
		return
	}

	// Fan out to every plombier that had offered. Each dispatch is detached,
	// so one failing delivery cannot block the others.
	cursor, err := offerCollection.Find(ctx, bson.M{"requestId": request.ID})
	if err != nil {
		config.Logger.WithError(err).Warn("Failed to load offers for cancel fan-out")
	} else {
		defer cursor.Close(ctx)
		var offers []models.InstantOffer
		if err := cursor.All(ctx, &offers); err != nil {
			config.Logger.WithError(err).Warn("Failed to decode offers for cancel fan-out")
		} else {
			notified := make(map[string]bool, len(offers))
			for _, offer := range offers {
				if notified[offer.PlombierID] {
					continue
				}
				notified[offer.PlombierID] = true
				services.GetNotifier().Dispatch(offer.PlombierID,
					"Demande annulée",
					"La demande sur laquelle vous aviez fait une offre n'est plus disponible.",
					map[string]string{"requestId": request.ID.Hex(), "type": "request_cancelled"})
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Request cancelled successfully"})
}
