package config

import (
	"context"
	"os"
	"sync"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

var (
	firebaseOnce    sync.Once
	authClient      *auth.Client
	messagingClient *messaging.Client
)

// initFirebase sets up the Firebase app once. Missing credentials are not
// fatal: plombier authentication and push delivery are then disabled and the
// accessors return nil.
func initFirebase() {
	firebaseOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var opts []option.ClientOption
		if credFile := os.Getenv("FIREBASE_CREDENTIALS"); credFile != "" {
			opts = append(opts, option.WithCredentialsFile(credFile))
		}

		app, err := firebase.NewApp(ctx, nil, opts...)
		if err != nil {
			Logger.WithError(err).Error("Failed to initialise Firebase app")
			return
		}

		if authClient, err = app.Auth(ctx); err != nil {
			Logger.WithError(err).Error("Failed to initialise Firebase auth client")
		}
		if messagingClient, err = app.Messaging(ctx); err != nil {
			Logger.WithError(err).Error("Failed to initialise Firebase messaging client")
		}
	})
}

// FirebaseAuth returns the identity-verification client, or nil when Firebase
// is not configured.
func FirebaseAuth() *auth.Client {
	initFirebase()
	return authClient
}

// FirebaseMessaging returns the push-delivery client, or nil when Firebase is
// not configured.
func FirebaseMessaging() *messaging.Client {
	initFirebase()
	return messagingClient
}
