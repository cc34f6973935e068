package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// dispatchTimeout bounds one background delivery round, token lookup included.
const dispatchTimeout = 15 * time.Second

// Notification is one push message.
type Notification struct {
	Title string
	Body  string
	Data  map[string]string
}

// Sender delivers one push message to one device token.
type Sender interface {
	Send(ctx context.Context, token string, n Notification) error
}

// TokenSource resolves a party id to its registered device tokens.
type TokenSource interface {
	Tokens(ctx context.Context, partyID string) ([]string, error)
}

// Notifier fans a notification out to every device registered for a party.
// Delivery is best-effort: failures are logged and swallowed, never returned,
// so a notification problem can never undo a state transition that already
// committed.
type Notifier struct {
	tokens TokenSource
	sender Sender
	log    *logrus.Logger
}

func NewNotifier(tokens TokenSource, sender Sender, log *logrus.Logger) *Notifier {
	return &Notifier{tokens: tokens, sender: sender, log: log}
}

// Dispatch delivers in the background and returns immediately. The goroutine
// runs on a fresh context so it outlives the triggering HTTP request.
func (n *Notifier) Dispatch(partyID, title, body string, data map[string]string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()
		n.Send(ctx, partyID, Notification{Title: title, Body: body, Data: data})
	}()
}

// Send is the synchronous delivery path behind Dispatch. One failing endpoint
// does not stop the attempts on the remaining ones.
func (n *Notifier) Send(ctx context.Context, partyID string, notif Notification) {
	tokens, err := n.tokens.Tokens(ctx, partyID)
	if err != nil {
		n.log.WithError(err).WithField("party", partyID).Warn("Device token lookup failed")
		return
	}
	if len(tokens) == 0 {
		n.log.WithField("party", partyID).Debug("No device tokens registered")
		return
	}

	for _, token := range tokens {
		if err := n.sender.Send(ctx, token, notif); err != nil {
			n.log.WithError(err).WithField("party", partyID).Warn("Push delivery failed")
		}
	}
}
