package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const eventColumns = `id, title, description, start_time, end_time, location, media, created_at`

func scanEvent(row rowScanner) (*Event, error) {
	var e Event
	var media pq.StringArray
	if err := row.Scan(&e.ID, &e.Title, &e.Description, &e.StartTime, &e.EndTime, &e.VenueID, &media, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.Media = []string(media)
	e.StartTime = e.StartTime.UTC()
	e.EndTime = e.EndTime.UTC()
	e.CreatedAt = e.CreatedAt.UTC()
	return normalizeEvent(&e), nil
}

func (pg *PostgresRepo) CreateEvent(ctx context.Context, event *Event) (*Event, error) {
	query := `INSERT INTO events (` + eventColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + eventColumns

	row := pg.DB.QueryRowContext(ctx, query,
		event.ID, event.Title, event.Description, event.StartTime, event.EndTime,
		event.VenueID, pq.Array(event.Media), event.CreatedAt,
	)
	created, err := scanEvent(row)
	if err != nil {
		return nil, storeErr("create event", err)
	}
	return created, nil
}

func (pg *PostgresRepo) GetEventByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event, err := scanEvent(pg.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("event", id.String())
	}
	if err != nil {
		return nil, storeErr("get event", err)
	}
	return event, nil
}

func (pg *PostgresRepo) ListEvents(ctx context.Context) ([]*Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY start_time ASC`
	return pg.queryEvents(ctx, "list events", query)
}

func (pg *PostgresRepo) ListEventsByIDs(ctx context.Context, ids []uuid.UUID) ([]*Event, error) {
	if len(ids) == 0 {
		return []*Event{}, nil
	}
	values := make([]string, 0, len(ids))
	for _, id := range ids {
		values = append(values, id.String())
	}
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = ANY($1::uuid[]) ORDER BY start_time ASC`
	return pg.queryEvents(ctx, "list events by id", query, pq.Array(values))
}

func (pg *PostgresRepo) ListEventsByVenue(ctx context.Context, venueID uuid.UUID, after time.Time) ([]*Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events
		WHERE location = $1 AND start_time > $2
		ORDER BY start_time ASC`
	return pg.queryEvents(ctx, "list venue events", query, venueID, after.UTC())
}

func (pg *PostgresRepo) queryEvents(ctx context.Context, op, query string, args ...any) ([]*Event, error) {
	rows, err := pg.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr(op, err)
	}
	defer rows.Close()

	events := []*Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, storeErr(op, fmt.Errorf("failed to scan event: %w", err))
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(op, err)
	}
	return events, nil
}
