package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/joshua-takyi/rendez/internal/media"
	"github.com/joshua-takyi/rendez/internal/models"
)

type EventsService struct {
	eventsRepo models.EventsRepo
	venuesRepo models.VenuesRepo
	location   *time.Location
	deps       Deps
}

// NewEventsService builds the event registry. loc anchors date and clock
// inputs that carry no timezone of their own.
func NewEventsService(eventsRepo models.EventsRepo, venuesRepo models.VenuesRepo, loc *time.Location, deps Deps) *EventsService {
	if loc == nil {
		loc = time.UTC
	}
	return &EventsService{
		eventsRepo: eventsRepo,
		venuesRepo: venuesRepo,
		location:   loc,
		deps:       deps,
	}
}

// CreateEvent schedules an event at an existing venue.
func (es *EventsService) CreateEvent(ctx context.Context, principal *models.Principal, input *models.EventInput) (*models.Event, error) {
	if err := models.Authorize(principal, models.CapManageCatalog); err != nil {
		es.deps.Metrics.CatalogWrite("event", "rejected")
		return nil, err
	}
	if input == nil {
		input = &models.EventInput{}
	}
	input.Sanitize()
	if err := models.ValidateStruct(input); err != nil {
		es.deps.Metrics.CatalogWrite("event", "rejected")
		return nil, err
	}

	start, end, err := input.Schedule(es.location)
	if err != nil {
		es.deps.Metrics.CatalogWrite("event", "rejected")
		return nil, err
	}

	venueID, err := uuid.Parse(input.VenueID)
	if err != nil {
		es.deps.Metrics.CatalogWrite("event", "rejected")
		return nil, models.NewValidationError("venueId", "must be a valid id")
	}
	if _, err := es.venuesRepo.GetVenueByID(ctx, venueID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			es.deps.Metrics.CatalogWrite("event", "rejected")
			return nil, models.NewValidationError("venueId", "does not reference an existing venue")
		}
		return nil, err
	}

	mediaURLs, uploaded, err := media.Resolve(ctx, es.deps.Uploader, input.Media, media.EventsFolder)
	if err != nil {
		es.deps.Metrics.CatalogWrite("event", "rejected")
		return nil, err
	}

	event := &models.Event{
		ID:          uuid.New(),
		Title:       input.Title,
		Description: input.Description,
		StartTime:   start,
		EndTime:     end,
		VenueID:     venueID,
		Media:       mediaURLs,
		CreatedAt:   es.deps.now(),
	}

	created, err := es.eventsRepo.CreateEvent(ctx, event)
	if err != nil {
		media.Cleanup(ctx, es.deps.Uploader, uploaded, es.deps.logger())
		es.deps.logger().Error("failed to create event", "error", err, "user_id", principal.ID)
		return nil, err
	}

	es.deps.Metrics.CatalogWrite("event", "created")
	es.deps.logger().Info("event created",
		"event_id", created.ID,
		"venue_id", created.VenueID,
		"start_time", created.StartTime,
		"user_id", principal.ID,
	)
	return created, nil
}

func (es *EventsService) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	eventID, err := uuid.Parse(id)
	if err != nil {
		return nil, models.ErrNotFound
	}
	return es.eventsRepo.GetEventByID(ctx, eventID)
}

func (es *EventsService) ListEvents(ctx context.Context) ([]*models.Event, error) {
	return es.eventsRepo.ListEvents(ctx)
}
