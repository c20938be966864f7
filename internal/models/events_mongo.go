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

type eventDoc struct {
	ID          string    `bson:"_id"`
	Title       string    `bson:"title"`
	Description string    `bson:"description"`
	StartTime   time.Time `bson:"start_time"`
	EndTime     time.Time `bson:"end_time"`
	Location    string    `bson:"location"`
	Media       []string  `bson:"media"`
	CreatedAt   time.Time `bson:"created_at"`
}

func toEventDoc(e *Event) eventDoc {
	return eventDoc{
		ID:          e.ID.String(),
		Title:       e.Title,
		Description: e.Description,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		Location:    e.VenueID.String(),
		Media:       e.Media,
		CreatedAt:   e.CreatedAt,
	}
}

func (d eventDoc) event() (*Event, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid event id %q: %v", d.ID, err)
	}
	venueID, err := uuid.Parse(d.Location)
	if err != nil {
		return nil, fmt.Errorf("invalid location %q on event %s: %v", d.Location, d.ID, err)
	}
	return normalizeEvent(&Event{
		ID:          id,
		Title:       d.Title,
		Description: d.Description,
		StartTime:   d.StartTime.UTC(),
		EndTime:     d.EndTime.UTC(),
		VenueID:     venueID,
		Media:       d.Media,
		CreatedAt:   d.CreatedAt.UTC(),
	}), nil
}

func (mdb *MongodbRepo) CreateEvent(ctx context.Context, event *Event) (*Event, error) {
	col, err := mdb.GetCollection(EventsTable)
	if err != nil {
		return nil, storeErr("create event", err)
	}
	doc := toEventDoc(event)
	if _, err := col.InsertOne(ctx, doc); err != nil {
		return nil, storeErr("create event", err)
	}
	return doc.event()
}

func (mdb *MongodbRepo) GetEventByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	col, err := mdb.GetCollection(EventsTable)
	if err != nil {
		return nil, storeErr("get event", err)
	}
	var doc eventDoc
	err = col.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound("event", id.String())
	}
	if err != nil {
		return nil, storeErr("get event", err)
	}
	return doc.event()
}

func (mdb *MongodbRepo) ListEvents(ctx context.Context) ([]*Event, error) {
	return mdb.findEvents(ctx, "list events", bson.M{})
}

func (mdb *MongodbRepo) ListEventsByIDs(ctx context.Context, ids []uuid.UUID) ([]*Event, error) {
	if len(ids) == 0 {
		return []*Event{}, nil
	}
	values := make([]string, 0, len(ids))
	for _, id := range ids {
		values = append(values, id.String())
	}
	return mdb.findEvents(ctx, "list events by id", bson.M{"_id": bson.M{"$in": values}})
}

func (mdb *MongodbRepo) ListEventsByVenue(ctx context.Context, venueID uuid.UUID, after time.Time) ([]*Event, error) {
	filter := bson.M{
		"location":   venueID.String(),
		"start_time": bson.M{"$gt": after.UTC()},
	}
	return mdb.findEvents(ctx, "list venue events", filter)
}

func (mdb *MongodbRepo) findEvents(ctx context.Context, op string, filter bson.M) ([]*Event, error) {
	col, err := mdb.GetCollection(EventsTable)
	if err != nil {
		return nil, storeErr(op, err)
	}
	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})
	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, storeErr(op, err)
	}
	defer cursor.Close(ctx)

	events := []*Event{}
	for cursor.Next(ctx) {
		var doc eventDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, storeErr(op, fmt.Errorf("error decoding event: %v", err))
		}
		e, err := doc.event()
		if err != nil {
			return nil, storeErr(op, err)
		}
		events = append(events, e)
	}
	if err := cursor.Err(); err != nil {
		return nil, storeErr(op, err)
	}
	return events, nil
}
