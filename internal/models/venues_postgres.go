package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const venueColumns = `id, name, description, address, city, state, country, media, created_at`

func scanVenue(row rowScanner) (*Venue, error) {
	var v Venue
	var country sql.NullString
	var media pq.StringArray
	if err := row.Scan(&v.ID, &v.Name, &v.Description, &v.Address, &v.City, &v.State, &country, &media, &v.CreatedAt); err != nil {
		return nil, err
	}
	v.Country = country.String
	v.Media = []string(media)
	v.CreatedAt = v.CreatedAt.UTC()
	return normalizeVenue(&v), nil
}

func (pg *PostgresRepo) CreateVenue(ctx context.Context, venue *Venue) (*Venue, error) {
	query := `INSERT INTO venues (` + venueColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + venueColumns

	row := pg.DB.QueryRowContext(ctx, query,
		venue.ID, venue.Name, venue.Description, venue.Address, venue.City, venue.State,
		sql.NullString{String: venue.Country, Valid: venue.Country != ""},
		pq.Array(venue.Media), venue.CreatedAt,
	)
	created, err := scanVenue(row)
	if err != nil {
		return nil, storeErr("create venue", err)
	}
	return created, nil
}

func (pg *PostgresRepo) GetVenueByID(ctx context.Context, id uuid.UUID) (*Venue, error) {
	query := `SELECT ` + venueColumns + ` FROM venues WHERE id = $1`

	venue, err := scanVenue(pg.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("venue", id.String())
	}
	if err != nil {
		return nil, storeErr("get venue", err)
	}
	return venue, nil
}

func (pg *PostgresRepo) ListVenues(ctx context.Context) ([]*Venue, error) {
	query := `SELECT ` + venueColumns + ` FROM venues ORDER BY created_at ASC`

	rows, err := pg.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, storeErr("list venues", err)
	}
	defer rows.Close()

	venues := []*Venue{}
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, storeErr("list venues", fmt.Errorf("failed to scan venue: %w", err))
		}
		venues = append(venues, v)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list venues", err)
	}
	return venues, nil
}
