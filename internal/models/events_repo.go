package models

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/supabase-community/postgrest-go"
)

func (su *SupabaseRepo) CreateEvent(ctx context.Context, event *Event) (*Event, error) {
	client, err := su.clientFor(ctx)
	if err != nil {
		return nil, storeErr("create event", err)
	}

	data, _, err := client.From(EventsTable).
		Insert(event, false, "", "representation", "").
		Execute()
	if err != nil {
		return nil, storeErr("create event", err)
	}

	var created []*Event
	if err := json.Unmarshal(data, &created); err != nil {
		return nil, storeErr("create event", fmt.Errorf("failed to unmarshal event: %v", err))
	}
	if len(created) == 0 {
		return nil, storeErr("create event", errors.New("no row returned"))
	}
	return normalizeEvent(created[0]), nil
}

func (su *SupabaseRepo) GetEventByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	client, err := su.clientFor(ctx)
	if err != nil {
		return nil, storeErr("get event", err)
	}

	data, _, err := client.From(EventsTable).
		Select("*", "", false).
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return nil, storeErr("get event", err)
	}

	events, err := decodeEvents(data)
	if err != nil {
		return nil, storeErr("get event", err)
	}
	if len(events) == 0 {
		return nil, notFound("event", id.String())
	}
	return events[0], nil
}

func (su *SupabaseRepo) ListEvents(ctx context.Context) ([]*Event, error) {
	client, err := su.clientFor(ctx)
	if err != nil {
		return nil, storeErr("list events", err)
	}

	data, _, err := client.From(EventsTable).
		Select("*", "", false).
		Order("start_time", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		return nil, storeErr("list events", err)
	}

	events, err := decodeEvents(data)
	if err != nil {
		return nil, storeErr("list events", err)
	}
	return events, nil
}

func (su *SupabaseRepo) ListEventsByIDs(ctx context.Context, ids []uuid.UUID) ([]*Event, error) {
	if len(ids) == 0 {
		return []*Event{}, nil
	}
	client, err := su.clientFor(ctx)
	if err != nil {
		return nil, storeErr("list events by id", err)
	}

	values := make([]string, 0, len(ids))
	for _, id := range ids {
		values = append(values, id.String())
	}

	data, _, err := client.From(EventsTable).
		Select("*", "", false).
		In("id", values).
		Execute()
	if err != nil {
		return nil, storeErr("list events by id", err)
	}

	events, err := decodeEvents(data)
	if err != nil {
		return nil, storeErr("list events by id", err)
	}
	return events, nil
}

func (su *SupabaseRepo) ListEventsByVenue(ctx context.Context, venueID uuid.UUID, after time.Time) ([]*Event, error) {
	client, err := su.clientFor(ctx)
	if err != nil {
		return nil, storeErr("list venue events", err)
	}

	data, _, err := client.From(EventsTable).
		Select("*", "", false).
		Eq("location", venueID.String()).
		Gt("start_time", after.UTC().Format(time.RFC3339Nano)).
		Order("start_time", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		return nil, storeErr("list venue events", err)
	}

	events, err := decodeEvents(data)
	if err != nil {
		return nil, storeErr("list venue events", err)
	}
	return events, nil
}

func decodeEvents(data []byte) ([]*Event, error) {
	var events []*Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("failed to unmarshal events: %v", err)
	}
	if events == nil {
		return []*Event{}, nil
	}
	for _, e := range events {
		normalizeEvent(e)
	}
	return events, nil
}

func normalizeEvent(e *Event) *Event {
	if e != nil && e.Media == nil {
		e.Media = []string{}
	}
	return e
}
