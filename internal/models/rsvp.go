package models

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RSVP records a user's intent to attend an event. At most one exists per
// (UserID, EventID); resubmitting updates the contact fields in place.
type RSVP struct {
	ID            uuid.UUID `db:"id" json:"id"`
	UserID        string    `db:"user_id" json:"user_id"`
	EventID       uuid.UUID `db:"event_id" json:"event_id"`
	FirstName     string    `db:"first_name" json:"first_name"`
	LastName      string    `db:"last_name" json:"last_name"`
	Email         string    `db:"email" json:"email"`
	Phone         string    `db:"phone" json:"phone,omitempty"`
	FutureUpdates bool      `db:"future_updates" json:"future_updates"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// RSVPRef is the projection returned when listing a user's RSVPs.
type RSVPRef struct {
	EventID uuid.UUID `json:"event_id"`
}

// RSVPInput carries the attendee's contact details.
type RSVPInput struct {
	FirstName     string `json:"firstName" validate:"required"`
	LastName      string `json:"lastName" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone,omitempty"`
	FutureUpdates *bool  `json:"futureUpdates,omitempty"`
}

func (in *RSVPInput) Sanitize() {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
}

// WantsUpdates defaults to true when the field was omitted.
func (in *RSVPInput) WantsUpdates() bool {
	if in.FutureUpdates == nil {
		return true
	}
	return *in.FutureUpdates
}

type RSVPRepo interface {
	// UpsertRSVP inserts the RSVP or, when one already exists for the same
	// user and event, replaces its contact fields. ID and CreatedAt are only
	// used on insert.
	UpsertRSVP(ctx context.Context, rsvp *RSVP) (*RSVP, error)
	GetRSVP(ctx context.Context, userID string, eventID uuid.UUID) (*RSVP, error)
	ListRSVPsByUser(ctx context.Context, userID string) ([]*RSVP, error)
}
