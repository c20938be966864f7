package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/joshua-takyi/rendez/internal/metrics"
	"github.com/joshua-takyi/rendez/internal/models"
)

const (
	venuesAllKey = "venues:all"
	eventsAllKey = "events:all"
)

func venueKey(id uuid.UUID) string { return "venues:" + id.String() }
func eventKey(id uuid.UUID) string { return "events:" + id.String() }

// Venues caches venue reads in front of a VenuesRepo. Cache failures are
// logged and the store is used instead.
type Venues struct {
	repo    models.VenuesRepo
	cache   Cache
	ttl     time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewVenues(repo models.VenuesRepo, c Cache, ttl time.Duration, logger *slog.Logger, m *metrics.Metrics) *Venues {
	return &Venues{repo: repo, cache: c, ttl: ttl, logger: logger, metrics: m}
}

func (v *Venues) CreateVenue(ctx context.Context, venue *models.Venue) (*models.Venue, error) {
	created, err := v.repo.CreateVenue(ctx, venue)
	if err != nil {
		return nil, err
	}
	invalidate(ctx, v.cache, v.logger, venuesAllKey)
	return created, nil
}

func (v *Venues) GetVenueByID(ctx context.Context, id uuid.UUID) (*models.Venue, error) {
	var venue *models.Venue
	if lookup(ctx, v.cache, venueKey(id), &venue, v.logger, v.metrics) && venue != nil {
		return venue, nil
	}
	venue, err := v.repo.GetVenueByID(ctx, id)
	if err != nil {
		return nil, err
	}
	store(ctx, v.cache, venueKey(id), venue, v.ttl, v.logger)
	return venue, nil
}

func (v *Venues) ListVenues(ctx context.Context) ([]*models.Venue, error) {
	var venues []*models.Venue
	if lookup(ctx, v.cache, venuesAllKey, &venues, v.logger, v.metrics) && venues != nil {
		return venues, nil
	}
	venues, err := v.repo.ListVenues(ctx)
	if err != nil {
		return nil, err
	}
	store(ctx, v.cache, venuesAllKey, venues, v.ttl, v.logger)
	return venues, nil
}

// Events caches the full event list and single events. Time filtered and
// id-set queries always go to the store.
type Events struct {
	repo    models.EventsRepo
	cache   Cache
	ttl     time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewEvents(repo models.EventsRepo, c Cache, ttl time.Duration, logger *slog.Logger, m *metrics.Metrics) *Events {
	return &Events{repo: repo, cache: c, ttl: ttl, logger: logger, metrics: m}
}

func (e *Events) CreateEvent(ctx context.Context, event *models.Event) (*models.Event, error) {
	created, err := e.repo.CreateEvent(ctx, event)
	if err != nil {
		return nil, err
	}
	invalidate(ctx, e.cache, e.logger, eventsAllKey)
	return created, nil
}

func (e *Events) GetEventByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	var event *models.Event
	if lookup(ctx, e.cache, eventKey(id), &event, e.logger, e.metrics) && event != nil {
		return event, nil
	}
	event, err := e.repo.GetEventByID(ctx, id)
	if err != nil {
		return nil, err
	}
	store(ctx, e.cache, eventKey(id), event, e.ttl, e.logger)
	return event, nil
}

func (e *Events) ListEvents(ctx context.Context) ([]*models.Event, error) {
	var events []*models.Event
	if lookup(ctx, e.cache, eventsAllKey, &events, e.logger, e.metrics) && events != nil {
		return events, nil
	}
	events, err := e.repo.ListEvents(ctx)
	if err != nil {
		return nil, err
	}
	store(ctx, e.cache, eventsAllKey, events, e.ttl, e.logger)
	return events, nil
}

func (e *Events) ListEventsByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Event, error) {
	return e.repo.ListEventsByIDs(ctx, ids)
}

func (e *Events) ListEventsByVenue(ctx context.Context, venueID uuid.UUID, after time.Time) ([]*models.Event, error) {
	return e.repo.ListEventsByVenue(ctx, venueID, after)
}

func lookup(ctx context.Context, c Cache, key string, dst any, logger *slog.Logger, m *metrics.Metrics) bool {
	b, err := c.Get(ctx, key)
	switch {
	case errors.Is(err, ErrMiss):
		m.CacheLookup("miss")
		return false
	case err != nil:
		m.CacheLookup("error")
		logger.Warn("cache read failed", "key", key, "error", err)
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		m.CacheLookup("error")
		logger.Warn("cache entry corrupt", "key", key, "error", err)
		return false
	}
	m.CacheLookup("hit")
	return true
}

func store(ctx context.Context, c Cache, key string, value any, ttl time.Duration, logger *slog.Logger) {
	b, err := json.Marshal(value)
	if err != nil {
		logger.Warn("cache encode failed", "key", key, "error", err)
		return
	}
	if err := c.Set(ctx, key, b, ttl); err != nil {
		logger.Warn("cache write failed", "key", key, "error", err)
	}
}

func invalidate(ctx context.Context, c Cache, logger *slog.Logger, keys ...string) {
	if err := c.Delete(ctx, keys...); err != nil {
		logger.Warn("cache invalidation failed", "keys", keys, "error", err)
	}
}
