package models

// LocationNotFound labels an event whose venue cannot be resolved.
const LocationNotFound = "Location not found"

// ListedEvent is an event joined with its venue for display.
type ListedEvent struct {
	*Event
	Venue         *Venue `json:"venue,omitempty"`
	LocationLabel string `json:"location_label"`
	LocationFound bool   `json:"location_found"`
}

// EventListing splits events into upcoming (earliest first) and past
// (most recent first). Partial is set when venue details could not be
// fetched and every label fell back to LocationNotFound.
type EventListing struct {
	Upcoming []ListedEvent `json:"upcoming"`
	Past     []ListedEvent `json:"past"`
	Partial  bool          `json:"partial"`
	Warnings []string      `json:"warnings,omitempty"`
}

func NewEventListing() *EventListing {
	return &EventListing{
		Upcoming: []ListedEvent{},
		Past:     []ListedEvent{},
	}
}
