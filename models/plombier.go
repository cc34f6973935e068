package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Plombier is a field technician profile. Plombiers authenticate with a
// Firebase ID token, so the document is keyed by the Firebase UID rather
// than by its ObjectID.
type Plombier struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UID          string             `bson:"uid" json:"uid"`
	Name         string             `bson:"name" json:"name"`
	Phone        string             `bson:"phone" json:"phone"`
	DeviceTokens []string           `bson:"deviceTokens,omitempty" json:"-"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
