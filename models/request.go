package models

import (
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RequestStatus enum
type RequestStatus string

const (
	StatusPending    RequestStatus = "pending"
	StatusAccepted   RequestStatus = "accepted"
	StatusArrived    RequestStatus = "arrived"
	StatusInProgress RequestStatus = "in_progress"
	StatusCompleted  RequestStatus = "completed"
	StatusCancelled  RequestStatus = "cancelled"
)

const (
	// MaxPhotos caps the photo list on a request; overflow is dropped silently.
	MaxPhotos = 5
	// MaxPhotoBytes is the decoded size limit per photo (2 MiB).
	MaxPhotoBytes = 2 << 20
)

// transitions is the forward edge set of the lifecycle graph. Cancellation is
// reachable only from pending and accepted; terminal states have no edges.
var transitions = map[RequestStatus][]RequestStatus{
	StatusPending:    {StatusAccepted, StatusCancelled},
	StatusAccepted:   {StatusArrived, StatusCancelled},
	StatusArrived:    {StatusInProgress, StatusCompleted},
	StatusInProgress: {StatusCompleted},
}

// Terminal reports whether no further transition can leave this status.
func (s RequestStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// PlombierLocation is the single current position snapshot for a request,
// overwritten in place on every publish. No history is kept.
type PlombierLocation struct {
	Latitude  float64   `bson:"latitude" json:"latitude"`
	Longitude float64   `bson:"longitude" json:"longitude"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// InstantRequest represents one urgent plumbing call tracked through the
// dispatch lifecycle.
type InstantRequest struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID         primitive.ObjectID `bson:"clientId" json:"clientId"`
	Status           RequestStatus      `bson:"status" json:"status"`
	Address          string             `bson:"address" json:"address"`
	Latitude         *float64           `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude        *float64           `bson:"longitude,omitempty" json:"longitude,omitempty"`
	City             *string            `bson:"city,omitempty" json:"city,omitempty"`
	Problem          string             `bson:"problem" json:"problem"`
	Photos           []string           `bson:"photos,omitempty" json:"photos,omitempty"`
	PhotoRequested   bool               `bson:"photoRequested" json:"photoRequested"`
	PhotoRequestedBy *string            `bson:"photoRequestedBy,omitempty" json:"photoRequestedBy,omitempty"`
	PhotoRequestedAt *time.Time         `bson:"photoRequestedAt,omitempty" json:"photoRequestedAt,omitempty"`
	PlombierID       *string            `bson:"plombierId,omitempty" json:"plombierId,omitempty"`
	PlombierLocation *PlombierLocation  `bson:"plombierLocation,omitempty" json:"plombierLocation,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
	AcceptedAt       *time.Time         `bson:"acceptedAt,omitempty" json:"acceptedAt,omitempty"`
	ArrivedAt        *time.Time         `bson:"arrivedAt,omitempty" json:"arrivedAt,omitempty"`
	ClientReadyAt    *time.Time         `bson:"clientReadyAt,omitempty" json:"clientReadyAt,omitempty"`
	CompletedAt      *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	CancelledAt      *time.Time         `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`
}

// StatusIs reports whether the request is currently in one of the given states.
func (r *InstantRequest) StatusIs(states ...RequestStatus) bool {
	for _, s := range states {
		if r.Status == s {
			return true
		}
	}
	return false
}

// CanTransition reports whether moving to the given status is allowed from
// the current one. Only forward edges of the lifecycle graph are valid.
func (r *InstantRequest) CanTransition(to RequestStatus) bool {
	for _, next := range transitions[r.Status] {
		if next == to {
			return true
		}
	}
	return false
}

// CanRequestPhotos reports whether a plombier may still ask the client for
// photos: only while the request is pending, and only once.
func (r *InstantRequest) CanRequestPhotos() bool {
	return r.Status == StatusPending && !r.PhotoRequested
}

// OwnedBy reports whether the given client created this request.
func (r *InstantRequest) OwnedBy(clientID primitive.ObjectID) bool {
	return r.ClientID == clientID
}

// AssignedTo reports whether the given plombier is the one assigned to this
// request. Always false while the request is unassigned.
func (r *InstantRequest) AssignedTo(uid string) bool {
	return r.PlombierID != nil && *r.PlombierID == uid
}

// ValidatePhoto checks one base64-encoded photo payload: it must decode, stay
// under MaxPhotoBytes and sniff as an image.
func ValidatePhoto(encoded string) error {
	if encoded == "" {
		return errors.New("empty photo payload")
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return errors.New("photo is not valid base64")
	}
	if len(raw) > MaxPhotoBytes {
		return errors.New("photo exceeds the 2MB limit")
	}
	if !strings.HasPrefix(mimetype.Detect(raw).String(), "image/") {
		return errors.New("photo payload is not an image")
	}
	return nil
}

// AppendPhotos adds photos up to the MaxPhotos cap. Overflow is dropped
// silently; the number actually stored is returned.
func (r *InstantRequest) AppendPhotos(encoded []string) int {
	room := MaxPhotos - len(r.Photos)
	if room <= 0 {
		return 0
	}
	if len(encoded) > room {
		encoded = encoded[:room]
	}
	r.Photos = append(r.Photos, encoded...)
	return len(encoded)
}
