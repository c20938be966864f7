package models

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/supabase-community/postgrest-go"
)

func (su *SupabaseRepo) CreateVenue(ctx context.Context, venue *Venue) (*Venue, error) {
	client, err := su.clientFor(ctx)
	if err != nil {
		return nil, storeErr("create venue", err)
	}

	data, _, err := client.From(VenuesTable).
		Insert(venue, false, "", "representation", "").
		Execute()
	if err != nil {
		return nil, storeErr("create venue", err)
	}

	var created []*Venue
	if err := json.Unmarshal(data, &created); err != nil {
		return nil, storeErr("create venue", fmt.Errorf("failed to unmarshal venue: %v", err))
	}
	if len(created) == 0 {
		return nil, storeErr("create venue", errors.New("no row returned"))
	}
	return normalizeVenue(created[0]), nil
}

func (su *SupabaseRepo) GetVenueByID(ctx context.Context, id uuid.UUID) (*Venue, error) {
	client, err := su.clientFor(ctx)
	if err != nil {
		return nil, storeErr("get venue", err)
	}

	data, _, err := client.From(VenuesTable).
		Select("*", "", false).
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return nil, storeErr("get venue", err)
	}

	// Supabase returns an array even for single results
	var venues []*Venue
	if err := json.Unmarshal(data, &venues); err != nil {
		return nil, storeErr("get venue", fmt.Errorf("failed to unmarshal venue rows: %v", err))
	}
	if len(venues) == 0 {
		return nil, notFound("venue", id.String())
	}
	return normalizeVenue(venues[0]), nil
}

func (su *SupabaseRepo) ListVenues(ctx context.Context) ([]*Venue, error) {
	client, err := su.clientFor(ctx)
	if err != nil {
		return nil, storeErr("list venues", err)
	}

	data, _, err := client.From(VenuesTable).
		Select("*", "", false).
		Order("created_at", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		return nil, storeErr("list venues", err)
	}

	var venues []*Venue
	if err := json.Unmarshal(data, &venues); err != nil {
		return nil, storeErr("list venues", fmt.Errorf("failed to unmarshal venues: %v", err))
	}
	for _, v := range venues {
		normalizeVenue(v)
	}
	if venues == nil {
		venues = []*Venue{}
	}
	return venues, nil
}

func normalizeVenue(v *Venue) *Venue {
	if v != nil && v.Media == nil {
		v.Media = []string{}
	}
	return v
}
