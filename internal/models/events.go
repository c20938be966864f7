package models

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Event is a scheduled happening at a venue. VenueID is stored in the
// "location" column.
type Event struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	StartTime   time.Time `db:"start_time" json:"start_time"`
	EndTime     time.Time `db:"end_time" json:"end_time"`
	VenueID     uuid.UUID `db:"location" json:"location"`
	Media       []string  `db:"media" json:"media"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// IsUpcoming reports whether the event starts strictly after now.
func (e *Event) IsUpcoming(now time.Time) bool {
	return e.StartTime.After(now)
}

// EventInput is the payload accepted when scheduling an event. Date and
// clock times are wall-clock values in Timezone (or the server default).
type EventInput struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description" validate:"required"`
	Date        string    `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime   string    `json:"startTime" validate:"required"`
	EndTime     string    `json:"endTime" validate:"required"`
	VenueID     string    `json:"venueId" validate:"required,uuid"`
	Timezone    string    `json:"timezone,omitempty" validate:"omitempty,timezone"`
	Media       MediaList `json:"media,omitempty"`
}

func (in *EventInput) Sanitize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Date = strings.TrimSpace(in.Date)
	in.StartTime = strings.TrimSpace(in.StartTime)
	in.EndTime = strings.TrimSpace(in.EndTime)
	in.VenueID = strings.TrimSpace(in.VenueID)
	in.Timezone = strings.TrimSpace(in.Timezone)
	in.Media = in.Media.Clean()
}

type EventsRepo interface {
	CreateEvent(ctx context.Context, event *Event) (*Event, error)
	GetEventByID(ctx context.Context, id uuid.UUID) (*Event, error)
	ListEvents(ctx context.Context) ([]*Event, error)
	ListEventsByIDs(ctx context.Context, ids []uuid.UUID) ([]*Event, error)
	// ListEventsByVenue returns the venue's events starting strictly after
	// the given instant, earliest first.
	ListEventsByVenue(ctx context.Context, venueID uuid.UUID, after time.Time) ([]*Event, error)
}
