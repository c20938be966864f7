package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"
	"github.com/joshua-takyi/rendez/internal/models"
)

// memStore is an in-memory store satisfying the venue, event and RSVP repos.
type memStore struct {
	mu       sync.Mutex
	venues   []*models.Venue
	events   []*models.Event
	rsvps    map[string]*models.RSVP
	writes   int
	venueErr error
	eventErr error
	rsvpErr  error
}

func newMemStore() *memStore {
	return &memStore{rsvps: map[string]*models.RSVP{}}
}

func storeFailure(op string) error {
	return &models.StoreError{Op: op, Err: errors.New("connection refused")}
}

func (m *memStore) CreateVenue(_ context.Context, v *models.Venue) (*models.Venue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.venueErr != nil {
		return nil, m.venueErr
	}
	m.writes++
	cp := *v
	m.venues = append(m.venues, &cp)
	return &cp, nil
}

func (m *memStore) GetVenueByID(_ context.Context, id uuid.UUID) (*models.Venue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.venueErr != nil {
		return nil, m.venueErr
	}
	for _, v := range m.venues {
		if v.ID == id {
			return v, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *memStore) ListVenues(context.Context) ([]*models.Venue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.venueErr != nil {
		return nil, m.venueErr
	}
	return append([]*models.Venue{}, m.venues...), nil
}

func (m *memStore) CreateEvent(_ context.Context, e *models.Event) (*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.eventErr != nil {
		return nil, m.eventErr
	}
	m.writes++
	cp := *e
	m.events = append(m.events, &cp)
	return &cp, nil
}

func (m *memStore) GetEventByID(_ context.Context, id uuid.UUID) (*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.eventErr != nil {
		return nil, m.eventErr
	}
	for _, e := range m.events {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *memStore) ListEvents(context.Context) ([]*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.eventErr != nil {
		return nil, m.eventErr
	}
	return append([]*models.Event{}, m.events...), nil
}

func (m *memStore) ListEventsByIDs(_ context.Context, ids []uuid.UUID) ([]*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.eventErr != nil {
		return nil, m.eventErr
	}
	want := map[uuid.UUID]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var out []*models.Event
	for _, e := range m.events {
		if want[e.ID] {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) ListEventsByVenue(_ context.Context, venueID uuid.UUID, after time.Time) ([]*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.eventErr != nil {
		return nil, m.eventErr
	}
	var out []*models.Event
	for _, e := range m.events {
		if e.VenueID == venueID && e.StartTime.After(after) {
			out = append(out, e)
		}
	}
	return out, nil
}

func rsvpKey(userID string, eventID uuid.UUID) string {
	return userID + "/" + eventID.String()
}

func (m *memStore) UpsertRSVP(_ context.Context, r *models.RSVP) (*models.RSVP, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rsvpErr != nil {
		return nil, m.rsvpErr
	}
	m.writes++
	key := rsvpKey(r.UserID, r.EventID)
	if existing, ok := m.rsvps[key]; ok {
		existing.FirstName = r.FirstName
		existing.LastName = r.LastName
		existing.Email = r.Email
		existing.Phone = r.Phone
		existing.FutureUpdates = r.FutureUpdates
		existing.UpdatedAt = r.UpdatedAt
		cp := *existing
		return &cp, nil
	}
	cp := *r
	m.rsvps[key] = &cp
	out := cp
	return &out, nil
}

func (m *memStore) GetRSVP(_ context.Context, userID string, eventID uuid.UUID) (*models.RSVP, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rsvpErr != nil {
		return nil, m.rsvpErr
	}
	r, ok := m.rsvps[rsvpKey(userID, eventID)]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memStore) ListRSVPsByUser(_ context.Context, userID string) ([]*models.RSVP, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rsvpErr != nil {
		return nil, m.rsvpErr
	}
	var out []*models.RSVP
	for _, r := range m.rsvps {
		if r.UserID == userID {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) rsvpCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rsvps)
}

func testDeps(now time.Time) Deps {
	return Deps{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Clock:  func() time.Time { return now },
	}
}

var (
	admin  = &models.Principal{ID: "admin-1", Email: "admin@example.com", Role: models.RoleAdmin}
	member = &models.Principal{ID: "member-1", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Role: models.RoleMember}
	guest  = &models.Principal{ID: "guest-1", Role: models.RoleGuest}
)
