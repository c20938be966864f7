package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

const rsvpColumns = `id, user_id, event_id, first_name, last_name, email, phone, future_updates, created_at, updated_at`

func scanRSVP(row rowScanner) (*RSVP, error) {
	var r RSVP
	var phone sql.NullString
	if err := row.Scan(&r.ID, &r.UserID, &r.EventID, &r.FirstName, &r.LastName, &r.Email, &phone, &r.FutureUpdates, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	r.Phone = phone.String
	r.CreatedAt = r.CreatedAt.UTC()
	r.UpdatedAt = r.UpdatedAt.UTC()
	return &r, nil
}

// UpsertRSVP uses the rsvp_user_event_unique constraint to merge a
// resubmission into the existing row.
func (pg *PostgresRepo) UpsertRSVP(ctx context.Context, rsvp *RSVP) (*RSVP, error) {
	query := `INSERT INTO rsvp (` + rsvpColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id, event_id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			future_updates = EXCLUDED.future_updates,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + rsvpColumns

	row := pg.DB.QueryRowContext(ctx, query,
		rsvp.ID, rsvp.UserID, rsvp.EventID, rsvp.FirstName, rsvp.LastName, rsvp.Email,
		sql.NullString{String: rsvp.Phone, Valid: rsvp.Phone != ""},
		rsvp.FutureUpdates, rsvp.CreatedAt, rsvp.UpdatedAt,
	)
	saved, err := scanRSVP(row)
	if err != nil {
		return nil, storeErr("upsert rsvp", err)
	}
	return saved, nil
}

func (pg *PostgresRepo) GetRSVP(ctx context.Context, userID string, eventID uuid.UUID) (*RSVP, error) {
	query := `SELECT ` + rsvpColumns + ` FROM rsvp WHERE user_id = $1 AND event_id = $2`

	r, err := scanRSVP(pg.DB.QueryRowContext(ctx, query, userID, eventID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("rsvp", userID+"/"+eventID.String())
	}
	if err != nil {
		return nil, storeErr("get rsvp", err)
	}
	return r, nil
}

func (pg *PostgresRepo) ListRSVPsByUser(ctx context.Context, userID string) ([]*RSVP, error) {
	query := `SELECT ` + rsvpColumns + ` FROM rsvp WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := pg.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, storeErr("list rsvps", err)
	}
	defer rows.Close()

	rsvps := []*RSVP{}
	for rows.Next() {
		r, err := scanRSVP(rows)
		if err != nil {
			return nil, storeErr("list rsvps", fmt.Errorf("failed to scan rsvp: %w", err))
		}
		rsvps = append(rsvps, r)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list rsvps", err)
	}
	return rsvps, nil
}
