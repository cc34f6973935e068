package middlewares

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"

	"alloplombier-be/config"
)

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.Request.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	// Extracting token from "Bearer <token>" format
	tokenString := authHeader
	if strings.HasPrefix(authHeader, "Bearer ") {
		tokenString = authHeader[7:]
	}
	return tokenString, true
}

func verifyClientToken(tokenString string) (Identity, error) {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return Identity{}, errors.New("JWT secret not configured")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return Identity{}, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, errors.New("invalid token claims")
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return Identity{}, errors.New("invalid token claims")
	}
	phone, _ := claims["phone"].(string)

	return Identity{UID: userID, Role: RoleClient, Phone: phone}, nil
}

func verifyPlombierToken(ctx context.Context, tokenString string) (Identity, error) {
	authClient := config.FirebaseAuth()
	if authClient == nil {
		return Identity{}, errors.New("identity service not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	token, err := authClient.VerifyIDToken(ctx, tokenString)
	if err != nil {
		return Identity{}, fmt.Errorf("invalid ID token: %w", err)
	}
	return Identity{UID: token.UID, Role: RolePlombier}, nil
}

// AuthClient verifies the customer session JWT (HS256, shared secret).
func AuthClient() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No authorization token provided"})
			c.Abort()
			return
		}

		id, err := verifyClientToken(tokenString)
		if err != nil {
			config.Logger.WithError(err).Debug("Client token validation failed")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization token"})
			c.Abort()
			return
		}

		setIdentity(c, id)
		c.Next()
	}
}

// AuthPlombier verifies a Firebase ID token through the external identity
// service.
func AuthPlombier() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No authorization token provided"})
			c.Abort()
			return
		}

		id, err := verifyPlombierToken(c.Request.Context(), tokenString)
		if err != nil {
			config.Logger.WithError(err).Debug("Plombier token validation failed")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization token"})
			c.Abort()
			return
		}

		setIdentity(c, id)
		c.Next()
	}
}

// AuthAny accepts either credential kind: the customer JWT is tried first,
// then the Firebase ID token.
func AuthAny() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No authorization token provided"})
			c.Abort()
			return
		}

		if id, err := verifyClientToken(tokenString); err == nil {
			setIdentity(c, id)
			c.Next()
			return
		}

		id, err := verifyPlombierToken(c.Request.Context(), tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization token"})
			c.Abort()
			return
		}

		setIdentity(c, id)
		c.Next()
	}
}
