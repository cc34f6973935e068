package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"alloplombier-be/config"
	"alloplombier-be/models"
	"alloplombier-be/utils"
)

// RegisterClient handles client registration
func RegisterClient(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required,max=50"`
		Phone    string `json:"phone" binding:"required,e164"`
		Password string `json:"password" binding:"required,min=6"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := clientCollection.CountDocuments(ctx, bson.M{"phone": input.Phone})
	if err != nil {
		config.Logger.WithError(err).Error("Error checking existing client")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "An account with this phone number already exists"})
		return
	}

	client := models.Client{
		Name:      input.Name,
		Phone:     input.Phone,
		Password:  input.Password,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := client.HashPassword(); err != nil {
		config.Logger.WithError(err).Error("Error hashing password")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	result, err := clientCollection.InsertOne(ctx, client)
	if err != nil {
		config.Logger.WithError(err).Error("Error inserting client")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":        result.InsertedID,
		"name":      client.Name,
		"phone":     client.Phone,
		"createdAt": client.CreatedAt,
	})
}

// LoginClient handles client login and issues the session JWT
func LoginClient(c *gin.Context) {
	var input struct {
		Phone    string `json:"phone" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var client models.Client
	err := clientCollection.FindOne(ctx, bson.M{"phone": input.Phone}).Decode(&client)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if !client.ComparePassword(input.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := utils.GenerateClientToken(client.ID.Hex(), client.Phone)
	if err != nil {
		config.Logger.WithError(err).Error("Error generating token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"id":        client.ID,
		"name":      client.Name,
		"phone":     client.Phone,
		"createdAt": client.CreatedAt,
	})
}

// GetMe retrieves the authenticated client's information
func GetMe(c *gin.Context) {
	_, clientID, ok := clientIdentity(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var client models.Client
	err := clientCollection.FindOne(ctx, bson.M{"_id": clientID}).Decode(&client)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":        client.ID,
		"name":      client.Name,
		"phone":     client.Phone,
		"createdAt": client.CreatedAt,
	})
}
