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

type rsvpDoc struct {
	ID            string    `bson:"_id"`
	UserID        string    `bson:"user_id"`
	EventID       string    `bson:"event_id"`
	FirstName     string    `bson:"first_name"`
	LastName      string    `bson:"last_name"`
	Email         string    `bson:"email"`
	Phone         string    `bson:"phone,omitempty"`
	FutureUpdates bool      `bson:"future_updates"`
	CreatedAt     time.Time `bson:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at"`
}

func (d rsvpDoc) rsvp() (*RSVP, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid rsvp id %q: %v", d.ID, err)
	}
	eventID, err := uuid.Parse(d.EventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event id %q on rsvp %s: %v", d.EventID, d.ID, err)
	}
	return &RSVP{
		ID:            id,
		UserID:        d.UserID,
		EventID:       eventID,
		FirstName:     d.FirstName,
		LastName:      d.LastName,
		Email:         d.Email,
		Phone:         d.Phone,
		FutureUpdates: d.FutureUpdates,
		CreatedAt:     d.CreatedAt.UTC(),
		UpdatedAt:     d.UpdatedAt.UTC(),
	}, nil
}

// UpsertRSVP relies on the unique (user_id, event_id) index created by
// EnsureIndexes so concurrent first submissions cannot both insert. The
// losing insert gets a duplicate key error and is retried once, which then
// matches the winner's document and updates it.
func (mdb *MongodbRepo) UpsertRSVP(ctx context.Context, rsvp *RSVP) (*RSVP, error) {
	col, err := mdb.GetCollection(RSVPTable)
	if err != nil {
		return nil, storeErr("upsert rsvp", err)
	}

	filter := bson.M{"user_id": rsvp.UserID, "event_id": rsvp.EventID.String()}
	update := bson.M{
		"$set": bson.M{
			"first_name":     rsvp.FirstName,
			"last_name":      rsvp.LastName,
			"email":          rsvp.Email,
			"phone":          rsvp.Phone,
			"future_updates": rsvp.FutureUpdates,
			"updated_at":     rsvp.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"_id":        rsvp.ID.String(),
			"created_at": rsvp.CreatedAt,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc rsvpDoc
	err = col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if IsDuplicateKeyError(err) {
		err = col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	}
	if err != nil {
		return nil, storeErr("upsert rsvp", err)
	}
	return doc.rsvp()
}

func (mdb *MongodbRepo) GetRSVP(ctx context.Context, userID string, eventID uuid.UUID) (*RSVP, error) {
	col, err := mdb.GetCollection(RSVPTable)
	if err != nil {
		return nil, storeErr("get rsvp", err)
	}
	var doc rsvpDoc
	err = col.FindOne(ctx, bson.M{"user_id": userID, "event_id": eventID.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound("rsvp", userID+"/"+eventID.String())
	}
	if err != nil {
		return nil, storeErr("get rsvp", err)
	}
	return doc.rsvp()
}

func (mdb *MongodbRepo) ListRSVPsByUser(ctx context.Context, userID string) ([]*RSVP, error) {
	col, err := mdb.GetCollection(RSVPTable)
	if err != nil {
		return nil, storeErr("list rsvps", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, storeErr("list rsvps", err)
	}
	defer cursor.Close(ctx)

	rsvps := []*RSVP{}
	for cursor.Next(ctx) {
		var doc rsvpDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, storeErr("list rsvps", fmt.Errorf("error decoding rsvp: %v", err))
		}
		r, err := doc.rsvp()
		if err != nil {
			return nil, storeErr("list rsvps", err)
		}
		rsvps = append(rsvps, r)
	}
	if err := cursor.Err(); err != nil {
		return nil, storeErr("list rsvps", err)
	}
	return rsvps, nil
}

// EnsureIndexes creates the indexes the RSVP ledger and event lookups rely on.
func (mdb *MongodbRepo) EnsureIndexes(ctx context.Context) error {
	rsvps, err := mdb.GetCollection(RSVPTable)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}
	_, err = rsvps.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "event_id", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetName("rsvp_user_event_unique"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("rsvp_user_created_idx"),
		},
	})
	if err != nil {
		return fmt.Errorf("error creating rsvp indexes: %v", err)
	}

	events, err := mdb.GetCollection(EventsTable)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}
	_, err = events.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "location", Value: 1},
				{Key: "start_time", Value: 1},
			},
			Options: options.Index().SetName("event_location_start_idx"),
		},
		{
			Keys:    bson.D{{Key: "start_time", Value: 1}},
			Options: options.Index().SetName("event_start_idx"),
		},
	})
	if err != nil {
		return fmt.Errorf("error creating event indexes: %v", err)
	}
	return nil
}

// IsDuplicateKeyError checks if the error is a MongoDB duplicate key error
func IsDuplicateKeyError(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
