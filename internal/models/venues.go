package models

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Venue is a physical location that hosts events. Venues are immutable once
// created.
type Venue struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Address     string    `db:"address" json:"address"`
	City        string    `db:"city" json:"city"`
	State       string    `db:"state" json:"state"`
	Country     string    `db:"country" json:"country,omitempty"`
	Media       []string  `db:"media" json:"media"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Label is the human readable location shown next to an event, built from
// the venue's name, city, state and country (blank parts are skipped).
func (v *Venue) Label() string {
	if v == nil {
		return LocationNotFound
	}
	parts := make([]string, 0, 4)
	for _, p := range []string{v.Name, v.City, v.State, v.Country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return LocationNotFound
	}
	return strings.Join(parts, ", ")
}

// VenueInput is the payload accepted when registering a venue.
type VenueInput struct {
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description" validate:"required"`
	Address     string    `json:"address" validate:"required"`
	City        string    `json:"city" validate:"required"`
	State       string    `json:"state" validate:"required"`
	Country     string    `json:"country,omitempty"`
	Media       MediaList `json:"media,omitempty"`
}

func (in *VenueInput) Sanitize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Address = strings.TrimSpace(in.Address)
	in.City = strings.TrimSpace(in.City)
	in.State = strings.TrimSpace(in.State)
	in.Country = strings.TrimSpace(in.Country)
	in.Media = in.Media.Clean()
}

type VenuesRepo interface {
	CreateVenue(ctx context.Context, venue *Venue) (*Venue, error)
	GetVenueByID(ctx context.Context, id uuid.UUID) (*Venue, error)
	ListVenues(ctx context.Context) ([]*Venue, error)
}
