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

// rsvpUpsertRow leaves out id and created_at so an existing row keeps them
// when PostgREST merges the duplicate.
type rsvpUpsertRow struct {
	UserID        string    `json:"user_id"`
	EventID       uuid.UUID `json:"event_id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Email         string    `json:"email"`
	Phone         *string   `json:"phone"`
	FutureUpdates bool      `json:"future_updates"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// supabaseRSVP tolerates a null phone column.
type supabaseRSVP struct {
	RSVP
	Phone *string `json:"phone"`
}

func (r supabaseRSVP) toRSVP() *RSVP {
	out := r.RSVP
	if r.Phone != nil {
		out.Phone = *r.Phone
	}
	return &out
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (su *SupabaseRepo) UpsertRSVP(ctx context.Context, rsvp *RSVP) (*RSVP, error) {
	client, err := su.clientFor(ctx)
	if err != nil {
		return nil, storeErr("upsert rsvp", err)
	}

	row := rsvpUpsertRow{
		UserID:        rsvp.UserID,
		EventID:       rsvp.EventID,
		FirstName:     rsvp.FirstName,
		LastName:      rsvp.LastName,
		Email:         rsvp.Email,
		Phone:         nullableString(rsvp.Phone),
		FutureUpdates: rsvp.FutureUpdates,
		UpdatedAt:     rsvp.UpdatedAt,
	}

	data, _, err := client.From(RSVPTable).
		Upsert(row, "user_id,event_id", "representation", "").
		Execute()
	if err != nil {
		return nil, storeErr("upsert rsvp", err)
	}

	rows, err := decodeRSVPs(data)
	if err != nil {
		return nil, storeErr("upsert rsvp", err)
	}
	if len(rows) == 0 {
		return nil, storeErr("upsert rsvp", errors.New("no row returned"))
	}
	return rows[0], nil
}

func (su *SupabaseRepo) GetRSVP(ctx context.Context, userID string, eventID uuid.UUID) (*RSVP, error) {
	client, err := su.clientFor(ctx)
	if err != nil {
		return nil, storeErr("get rsvp", err)
	}

	data, _, err := client.From(RSVPTable).
		Select("*", "", false).
		Eq("user_id", userID).
		Eq("event_id", eventID.String()).
		Execute()
	if err != nil {
		return nil, storeErr("get rsvp", err)
	}

	rows, err := decodeRSVPs(data)
	if err != nil {
		return nil, storeErr("get rsvp", err)
	}
	if len(rows) == 0 {
		return nil, notFound("rsvp", userID+"/"+eventID.String())
	}
	return rows[0], nil
}

func (su *SupabaseRepo) ListRSVPsByUser(ctx context.Context, userID string) ([]*RSVP, error) {
	client, err := su.clientFor(ctx)
	if err != nil {
		return nil, storeErr("list rsvps", err)
	}

	data, _, err := client.From(RSVPTable).
		Select("*", "", false).
		Eq("user_id", userID).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		return nil, storeErr("list rsvps", err)
	}

	rows, err := decodeRSVPs(data)
	if err != nil {
		return nil, storeErr("list rsvps", err)
	}
	return rows, nil
}

func decodeRSVPs(data []byte) ([]*RSVP, error) {
	var raw []supabaseRSVP
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rsvps: %v", err)
	}
	out := make([]*RSVP, 0, len(raw))
	for _, r := range raw {
		out = append(out, r.toRSVP())
	}
	return out, nil
}
