package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InstantOffer is a plombier's bid against a pending request. Offers are
// append-only; the winner is chosen by the client through the accept flow.
type InstantOffer struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RequestID  primitive.ObjectID `bson:"requestId" json:"requestId"`
	PlombierID string             `bson:"plombierId" json:"plombierId"`
	Price      *float64           `bson:"price,omitempty" json:"price,omitempty"`
	Message    string             `bson:"message,omitempty" json:"message,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// EnsureOfferIndex creates a unique compound index for (requestId, plombierId)
// so a plombier cannot bid twice on the same request
func EnsureOfferIndex(collection *mongo.Collection) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "requestId", Value: 1}, {Key: "plombierId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	_, err := collection.Indexes().CreateOne(ctx, indexModel)
	return err
}
