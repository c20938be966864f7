package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/joshua-takyi/rendez/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eventAt(venueID uuid.UUID, start time.Time) *models.Event {
	return &models.Event{
		ID:        uuid.New(),
		Title:     start.Format(time.RFC3339),
		StartTime: start,
		EndTime:   start.Add(2 * time.Hour),
		VenueID:   venueID,
	}
}

func TestListUpcomingAndPast_Partition(t *testing.T) {
	venue := &models.Venue{ID: uuid.New(), Name: "Hall A", City: "Springfield", State: "IL", Country: "US"}
	now := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)

	events := []*models.Event{
		eventAt(venue.ID, now.Add(72*time.Hour)),
		eventAt(venue.ID, now.Add(-time.Hour)),
		eventAt(venue.ID, now),
		eventAt(venue.ID, now.Add(time.Second)),
		eventAt(uuid.New(), now.Add(-48*time.Hour)),
		eventAt(venue.ID, now.Add(24*time.Hour)),
		eventAt(venue.ID, now.Add(-time.Hour)),
	}

	listing := ListUpcomingAndPast(events, []*models.Venue{venue}, now)

	seen := map[uuid.UUID]int{}
	for _, item := range listing.Upcoming {
		assert.True(t, item.StartTime.After(now), "upcoming event must start after now")
		seen[item.ID]++
	}
	for _, item := range listing.Past {
		assert.False(t, item.StartTime.After(now), "past event must not start after now")
		seen[item.ID]++
	}
	require.Len(t, seen, len(events))
	for _, e := range events {
		assert.Equal(t, 1, seen[e.ID])
	}

	for i := 1; i < len(listing.Upcoming); i++ {
		assert.False(t, listing.Upcoming[i].StartTime.Before(listing.Upcoming[i-1].StartTime))
	}
	for i := 1; i < len(listing.Past); i++ {
		assert.False(t, listing.Past[i].StartTime.After(listing.Past[i-1].StartTime))
	}

	// an event starting exactly at now is past
	assert.Len(t, listing.Upcoming, 3)
	assert.Len(t, listing.Past, 4)
	assert.Equal(t, now, listing.Past[0].StartTime)
	assert.False(t, listing.Partial)
}

func TestListUpcomingAndPast_Labels(t *testing.T) {
	venue := &models.Venue{ID: uuid.New(), Name: "Hall A", City: "Springfield", State: "IL"}
	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	known := eventAt(venue.ID, now.Add(time.Hour))
	dangling := eventAt(uuid.New(), now.Add(2*time.Hour))

	listing := ListUpcomingAndPast([]*models.Event{dangling, known}, []*models.Venue{venue, nil}, now)
	require.Len(t, listing.Upcoming, 2)

	assert.Equal(t, known.ID, listing.Upcoming[0].ID)
	assert.True(t, listing.Upcoming[0].LocationFound)
	assert.Equal(t, "Hall A, Springfield, IL", listing.Upcoming[0].LocationLabel)
	assert.Same(t, venue, listing.Upcoming[0].Venue)

	assert.False(t, listing.Upcoming[1].LocationFound)
	assert.Nil(t, listing.Upcoming[1].Venue)
	assert.Equal(t, models.LocationNotFound, listing.Upcoming[1].LocationLabel)
}

func TestListUpcomingAndPast_Empty(t *testing.T) {
	listing := ListUpcomingAndPast(nil, nil, time.Now())
	assert.NotNil(t, listing.Upcoming)
	assert.NotNil(t, listing.Past)
	assert.Empty(t, listing.Upcoming)
	assert.Empty(t, listing.Past)
}
