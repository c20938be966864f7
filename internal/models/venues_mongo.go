package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type venueDoc struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	Description string    `bson:"description"`
	Address     string    `bson:"address"`
	City        string    `bson:"city"`
	State       string    `bson:"state"`
	Country     string    `bson:"country,omitempty"`
	Media       []string  `bson:"media"`
	CreatedAt   time.Time `bson:"created_at"`
}

func toVenueDoc(v *Venue) venueDoc {
	return venueDoc{
		ID:          v.ID.String(),
		Name:        v.Name,
		Description: v.Description,
		Address:     v.Address,
		City:        v.City,
		State:       v.State,
		Country:     v.Country,
		Media:       v.Media,
		CreatedAt:   v.CreatedAt,
	}
}

func (d venueDoc) venue() (*Venue, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid venue id %q: %v", d.ID, err)
	}
	return normalizeVenue(&Venue{
		ID:          id,
		Name:        d.Name,
		Description: d.Description,
		Address:     d.Address,
		City:        d.City,
		State:       d.State,
		Country:     d.Country,
		Media:       d.Media,
		CreatedAt:   d.CreatedAt.UTC(),
	}), nil
}

func (mdb *MongodbRepo) CreateVenue(ctx context.Context, venue *Venue) (*Venue, error) {
	col, err := mdb.GetCollection(VenuesTable)
	if err != nil {
		return nil, storeErr("create venue", err)
	}
	doc := toVenueDoc(venue)
	if _, err := col.InsertOne(ctx, doc); err != nil {
		return nil, storeErr("create venue", err)
	}
	return doc.venue()
}

func (mdb *MongodbRepo) GetVenueByID(ctx context.Context, id uuid.UUID) (*Venue, error) {
	col, err := mdb.GetCollection(VenuesTable)
	if err != nil {
		return nil, storeErr("get venue", err)
	}
	var doc venueDoc
	err = col.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound("venue", id.String())
	}
	if err != nil {
		return nil, storeErr("get venue", err)
	}
	return doc.venue()
}

func (mdb *MongodbRepo) ListVenues(ctx context.Context) ([]*Venue, error) {
	col, err := mdb.GetCollection(VenuesTable)
	if err != nil {
		return nil, storeErr("list venues", err)
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, storeErr("list venues", err)
	}
	defer cursor.Close(ctx)

	venues := []*Venue{}
	for cursor.Next(ctx) {
		var doc venueDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, storeErr("list venues", fmt.Errorf("error decoding venue: %v", err))
		}
		v, err := doc.venue()
		if err != nil {
			return nil, storeErr("list venues", err)
		}
		venues = append(venues, v)
	}
	if err := cursor.Err(); err != nil {
		return nil, storeErr("list venues", err)
	}
	return venues, nil
}
