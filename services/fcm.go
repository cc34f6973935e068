package services

import (
	"context"
	"sync"

	"firebase.google.com/go/v4/messaging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"alloplombier-be/config"
	"alloplombier-be/models"
)

// fcmSender delivers through Firebase Cloud Messaging.
type fcmSender struct {
	client *messaging.Client
}

func (s fcmSender) Send(ctx context.Context, token string, n Notification) error {
	_, err := s.client.Send(ctx, &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Body,
		},
		Data: n.Data,
	})
	return err
}

// noopSender stands in when Firebase is not configured so the rest of the
// lifecycle keeps working in development.
type noopSender struct{}

func (noopSender) Send(ctx context.Context, token string, n Notification) error {
	config.Logger.WithField("title", n.Title).Debug("Push delivery skipped, FCM not configured")
	return nil
}

// mongoTokens resolves device tokens for either kind of party: clients are
// keyed by their ObjectID, plombiers by their Firebase UID.
type mongoTokens struct{}

func (mongoTokens) Tokens(ctx context.Context, partyID string) ([]string, error) {
	if oid, err := primitive.ObjectIDFromHex(partyID); err == nil {
		var cl models.Client
		err := config.GetCollection("clients").FindOne(ctx, bson.M{"_id": oid}).Decode(&cl)
		if err == nil {
			return cl.DeviceTokens, nil
		}
		if err != mongo.ErrNoDocuments {
			return nil, err
		}
	}

	var p models.Plombier
	if err := config.GetCollection("plombiers").FindOne(ctx, bson.M{"uid": partyID}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return p.DeviceTokens, nil
}

var (
	notifier     *Notifier
	notifierOnce sync.Once
)

// GetNotifier returns the process-wide dispatcher, wired to FCM and the
// device-token records in MongoDB.
func GetNotifier() *Notifier {
	notifierOnce.Do(func() {
		var sender Sender = noopSender{}
		if client := config.FirebaseMessaging(); client != nil {
			sender = fcmSender{client: client}
		}
		notifier = NewNotifier(mongoTokens{}, sender, config.Logger)
	})
	return notifier
}
