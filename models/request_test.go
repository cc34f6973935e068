package models

import (
	"encoding/base64"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// 1x1 transparent PNG.
const tinyPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

func TestAppendPhotosCapsAtFive(t *testing.T) {
	t.Parallel()

	var r InstantRequest
	photos := []string{"p1", "p2", "p3", "p4", "p5", "p6"}

	stored := r.AppendPhotos(photos)
	if stored != 5 {
		t.Fatalf("expected 5 stored, got %d", stored)
	}
	if len(r.Photos) != MaxPhotos {
		t.Fatalf("expected photo list capped at %d, got %d", MaxPhotos, len(r.Photos))
	}
}

func TestAppendPhotosCapsAcrossCalls(t *testing.T) {
	t.Parallel()

	var r InstantRequest
	if stored := r.AppendPhotos([]string{"p1", "p2", "p3"}); stored != 3 {
		t.Fatalf("first call stored %d, want 3", stored)
	}
	if stored := r.AppendPhotos([]string{"p4", "p5", "p6"}); stored != 2 {
		t.Fatalf("second call stored %d, want 2", stored)
	}
	if stored := r.AppendPhotos([]string{"p7"}); stored != 0 {
		t.Fatalf("third call stored %d, want 0", stored)
	}
	if len(r.Photos) != MaxPhotos {
		t.Fatalf("expected %d photos total, got %d", MaxPhotos, len(r.Photos))
	}
}

func TestCanTransition(t *testing.T) {
	t.Parallel()

	cases := []struct {
		from RequestStatus
		to   RequestStatus
		want bool
	}{
		{StatusPending, StatusAccepted, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusArrived, false},
		{StatusAccepted, StatusArrived, true},
		{StatusAccepted, StatusCancelled, true},
		{StatusAccepted, StatusPending, false},
		{StatusArrived, StatusInProgress, true},
		{StatusArrived, StatusCompleted, true},
		{StatusArrived, StatusCancelled, false},
		{StatusInProgress, StatusCompleted, true},
	}
	for _, tc := range cases {
		r := InstantRequest{Status: tc.from}
		if got := r.CanTransition(tc.to); got != tc.want {
			t.Fatalf("CanTransition(%s -> %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestTerminalStatesRejectEveryTransition(t *testing.T) {
	t.Parallel()

	all := []RequestStatus{
		StatusPending, StatusAccepted, StatusArrived,
		StatusInProgress, StatusCompleted, StatusCancelled,
	}
	for _, terminal := range []RequestStatus{StatusCompleted, StatusCancelled} {
		if !terminal.Terminal() {
			t.Fatalf("%s should be terminal", terminal)
		}
		r := InstantRequest{Status: terminal}
		for _, to := range all {
			if r.CanTransition(to) {
				t.Fatalf("terminal status %s allowed transition to %s", terminal, to)
			}
		}
	}
}

func TestCanRequestPhotos(t *testing.T) {
	t.Parallel()

	cases := []struct {
		status    RequestStatus
		requested bool
		want      bool
	}{
		{StatusPending, false, true},
		{StatusPending, true, false},
		{StatusAccepted, false, false},
		{StatusArrived, false, false},
		{StatusInProgress, false, false},
		{StatusCompleted, false, false},
		{StatusCancelled, false, false},
		{StatusCancelled, true, false},
	}
	for _, tc := range cases {
		r := InstantRequest{Status: tc.status, PhotoRequested: tc.requested}
		if got := r.CanRequestPhotos(); got != tc.want {
			t.Fatalf("CanRequestPhotos(status=%s, requested=%v) = %v, want %v",
				tc.status, tc.requested, got, tc.want)
		}
	}
}

func TestOwnershipChecks(t *testing.T) {
	t.Parallel()

	owner := primitive.NewObjectID()
	other := primitive.NewObjectID()
	uid := "plombier-uid"

	r := InstantRequest{ClientID: owner, PlombierID: &uid}

	if !r.OwnedBy(owner) {
		t.Fatal("owner should pass OwnedBy")
	}
	if r.OwnedBy(other) {
		t.Fatal("non-owner should fail OwnedBy")
	}
	if !r.AssignedTo(uid) {
		t.Fatal("assigned plombier should pass AssignedTo")
	}
	if r.AssignedTo("someone-else") {
		t.Fatal("other plombier should fail AssignedTo")
	}

	unassigned := InstantRequest{ClientID: owner}
	if unassigned.AssignedTo(uid) {
		t.Fatal("AssignedTo must be false while unassigned")
	}
}

func TestValidatePhoto(t *testing.T) {
	t.Parallel()

	if err := ValidatePhoto(tinyPNG); err != nil {
		t.Fatalf("valid PNG rejected: %v", err)
	}
	if err := ValidatePhoto(""); err == nil {
		t.Fatal("empty payload accepted")
	}
	if err := ValidatePhoto("not-base64!!"); err == nil {
		t.Fatal("invalid base64 accepted")
	}
	notAnImage := base64.StdEncoding.EncodeToString([]byte("plain text payload"))
	if err := ValidatePhoto(notAnImage); err == nil {
		t.Fatal("non-image payload accepted")
	}
}

func TestValidatePhotoSizeLimit(t *testing.T) {
	t.Parallel()

	oversized := make([]byte, MaxPhotoBytes+1)
	// PNG magic so only the size check can reject it.
	copy(oversized, []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A})

	if err := ValidatePhoto(base64.StdEncoding.EncodeToString(oversized)); err == nil {
		t.Fatal("oversized payload accepted")
	}
}

func TestStatusIs(t *testing.T) {
	t.Parallel()

	r := InstantRequest{Status: StatusAccepted}
	if !r.StatusIs(StatusAccepted, StatusArrived) {
		t.Fatal("expected StatusIs to match accepted")
	}
	if r.StatusIs(StatusPending, StatusCancelled) {
		t.Fatal("expected StatusIs not to match")
	}
}
