package services

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/joshua-takyi/rendez/internal/models"
)

// ListUpcomingAndPast partitions events around now and labels each one with
// its venue. An event is upcoming only when it starts strictly after now.
// Upcoming events are ordered earliest first and past events most recent
// first. Events whose venue is missing from venues are labelled
// models.LocationNotFound.
func ListUpcomingAndPast(events []*models.Event, venues []*models.Venue, now time.Time) *models.EventListing {
	byID := make(map[uuid.UUID]*models.Venue, len(venues))
	for _, v := range venues {
		if v != nil {
			byID[v.ID] = v
		}
	}

	listing := models.NewEventListing()
	for _, e := range events {
		if e == nil {
			continue
		}
		item := models.ListedEvent{Event: e, LocationLabel: models.LocationNotFound}
		if v, ok := byID[e.VenueID]; ok {
			item.Venue = v
			item.LocationLabel = v.Label()
			item.LocationFound = true
		}
		if e.IsUpcoming(now) {
			listing.Upcoming = append(listing.Upcoming, item)
		} else {
			listing.Past = append(listing.Past, item)
		}
	}

	sort.SliceStable(listing.Upcoming, func(i, j int) bool {
		return listing.Upcoming[i].StartTime.Before(listing.Upcoming[j].StartTime)
	})
	sort.SliceStable(listing.Past, func(i, j int) bool {
		return listing.Past[i].StartTime.After(listing.Past[j].StartTime)
	})
	return listing
}
