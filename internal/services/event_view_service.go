package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/joshua-takyi/rendez/internal/models"
)

const (
	venuesUnavailableWarning = "venue details are temporarily unavailable"
	eventsUnavailableWarning = "events are temporarily unavailable"
)

// EventViewService joins events with venues and RSVPs for display.
type EventViewService struct {
	eventsRepo models.EventsRepo
	venuesRepo models.VenuesRepo
	rsvps      *RSVPService
	deps       Deps
}

func NewEventViewService(eventsRepo models.EventsRepo, venuesRepo models.VenuesRepo, rsvps *RSVPService, deps Deps) *EventViewService {
	return &EventViewService{
		eventsRepo: eventsRepo,
		venuesRepo: venuesRepo,
		rsvps:      rsvps,
		deps:       deps,
	}
}

// ListUpcomingAndPast returns every event split around now. When venues
// cannot be fetched the listing is still returned, marked Partial, with
// every location labelled models.LocationNotFound. When events cannot be
// fetched an empty Partial listing is returned.
func (vs *EventViewService) ListUpcomingAndPast(ctx context.Context, now time.Time) (*models.EventListing, error) {
	events, err := vs.eventsRepo.ListEvents(ctx)
	if err != nil {
		return vs.eventsUnavailable(err), nil
	}
	return vs.join(ctx, events, now), nil
}

// ListEventsForVenue returns the venue's events that start strictly after
// now, earliest first.
func (vs *EventViewService) ListEventsForVenue(ctx context.Context, venueID string, now time.Time) ([]*models.Event, error) {
	id, err := uuid.Parse(venueID)
	if err != nil {
		return nil, models.ErrNotFound
	}
	if _, err := vs.venuesRepo.GetVenueByID(ctx, id); err != nil {
		return nil, err
	}

	events, err := vs.eventsRepo.ListEventsByVenue(ctx, id, now)
	if err != nil {
		return nil, err
	}

	upcoming := make([]*models.Event, 0, len(events))
	for _, e := range events {
		if e != nil && e.VenueID == id && e.IsUpcoming(now) {
			upcoming = append(upcoming, e)
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].StartTime.Before(upcoming[j].StartTime)
	})
	return upcoming, nil
}

// ListUserDashboard returns the principal's RSVP'd events split around now.
func (vs *EventViewService) ListUserDashboard(ctx context.Context, principal *models.Principal, now time.Time) (*models.EventListing, error) {
	if err := models.Authorize(principal, models.CapRSVP); err != nil {
		return nil, err
	}

	refs, err := vs.rsvps.ListRSVPsForUser(ctx, principal.ID)
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return models.NewEventListing(), nil
	}

	seen := make(map[uuid.UUID]struct{}, len(refs))
	ids := make([]uuid.UUID, 0, len(refs))
	for _, ref := range refs {
		if _, dup := seen[ref.EventID]; dup {
			continue
		}
		seen[ref.EventID] = struct{}{}
		ids = append(ids, ref.EventID)
	}

	events, err := vs.eventsRepo.ListEventsByIDs(ctx, ids)
	if err != nil {
		return vs.eventsUnavailable(err), nil
	}
	return vs.join(ctx, events, now), nil
}

// GetEventDetail returns a single event with its venue resolved.
func (vs *EventViewService) GetEventDetail(ctx context.Context, eventID string) (*models.ListedEvent, error) {
	id, err := uuid.Parse(eventID)
	if err != nil {
		return nil, models.ErrNotFound
	}
	event, err := vs.eventsRepo.GetEventByID(ctx, id)
	if err != nil {
		return nil, err
	}

	item := &models.ListedEvent{Event: event, LocationLabel: models.LocationNotFound}
	venue, err := vs.venuesRepo.GetVenueByID(ctx, event.VenueID)
	if err != nil {
		vs.deps.logger().Warn("venue lookup failed for event", "event_id", id, "venue_id", event.VenueID, "error", err)
		return item, nil
	}
	item.Venue = venue
	item.LocationLabel = venue.Label()
	item.LocationFound = true
	return item, nil
}

func (vs *EventViewService) join(ctx context.Context, events []*models.Event, now time.Time) *models.EventListing {
	venues, err := vs.venuesRepo.ListVenues(ctx)
	if err != nil {
		vs.deps.logger().Warn("venue fetch failed, serving partial listing", "error", err)
		vs.deps.Metrics.PartialListing()
		listing := ListUpcomingAndPast(events, nil, now)
		listing.Partial = true
		listing.Warnings = append(listing.Warnings, venuesUnavailableWarning)
		return listing
	}
	return ListUpcomingAndPast(events, venues, now)
}

func (vs *EventViewService) eventsUnavailable(err error) *models.EventListing {
	vs.deps.logger().Warn("event fetch failed, serving partial listing", "error", err)
	vs.deps.Metrics.PartialListing()
	listing := models.NewEventListing()
	listing.Partial = true
	listing.Warnings = append(listing.Warnings, eventsUnavailableWarning)
	return listing
}

// Now is the instant listings are partitioned around.
func (vs *EventViewService) Now() time.Time {
	return vs.deps.now()
}
