package models

import (
	"context"
	"errors"

	"github.com/EGS-Tourist-Guide/event-service/internal/retry"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type EventRepo interface {
	CreateEvent(ctx context.Context, event *Event) (*Event, error)
	GetEventByID(ctx context.Context, id string) (*Event, error)
	ListEvents(ctx context.Context, filter ListFilter) ([]*Event, error)
	UpdateEvent(ctx context.Context, id string, fields bson.M) (*Event, error)
	DeleteEventWithFavorites(ctx context.Context, id string) error
}

func (mdb *MongodbRepo) CreateEvent(ctx context.Context, event *Event) (*Event, error) {
	const op = "store.createEvent"
	return retry.Do(ctx, op, retry.StoreDefaults(), func(ctx context.Context) (*Event, error) {
		_, err := mdb.collection(EventColName).InsertOne(ctx, event)
		if err != nil {
			// The identity is client-supplied, so a duplicate key after a
			// lost response means an earlier attempt already succeeded.
			if mongo.IsDuplicateKeyError(err) {
				return event, nil
			}
			return nil, storeErr(op, err)
		}
		return event, nil
	})
}

// GetEventByID returns (nil, nil) when no event has the given id; a
// miss is not an error at this layer.
func (mdb *MongodbRepo) GetEventByID(ctx context.Context, id string) (*Event, error) {
	const op = "store.getEvent"
	return retry.Do(ctx, op, retry.StoreDefaults(), func(ctx context.Context) (*Event, error) {
		var event Event
		err := mdb.collection(EventColName).FindOne(ctx, bson.M{"_id": id}).Decode(&event)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, nil
			}
			return nil, storeErr(op, err)
		}
		return &event, nil
	})
}

// ListEvents returns an empty slice when nothing matches.
func (mdb *MongodbRepo) ListEvents(ctx context.Context, filter ListFilter) ([]*Event, error) {
	const op = "store.listEvents"
	limit, offset := filter.Bounds()
	query := filter.Query()

	return retry.Do(ctx, op, retry.StoreDefaults(), func(ctx context.Context) ([]*Event, error) {
		opts := options.Find().SetLimit(limit).SetSkip(offset)
		cursor, err := mdb.collection(EventColName).Find(ctx, query, opts)
		if err != nil {
			return nil, storeErr(op, err)
		}
		defer cursor.Close(ctx)

		events := []*Event{}
		for cursor.Next(ctx) {
			var event Event
			if err := cursor.Decode(&event); err != nil {
				return nil, storeErr(op, err)
			}
			events = append(events, &event)
		}
		if err := cursor.Err(); err != nil {
			return nil, storeErr(op, err)
		}
		return events, nil
	})
}

// UpdateEvent sets the given fields and returns the updated record, or
// (nil, nil) when the id does not exist. The favorites counter is not
// writable through this path; it only moves by atomic increments from
// the favorite toggle.
func (mdb *MongodbRepo) UpdateEvent(ctx context.Context, id string, fields bson.M) (*Event, error) {
	const op = "store.updateEvent"
	delete(fields, "favorites")
	delete(fields, "_id")
	delete(fields, "userid")
	delete(fields, "calendarid")
	delete(fields, "pointofinterestid")
	delete(fields, "created")

	return retry.Do(ctx, op, retry.StoreDefaults(), func(ctx context.Context) (*Event, error) {
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		var updated Event
		err := mdb.collection(EventColName).
			FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts).
			Decode(&updated)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, nil
			}
			return nil, storeErr(op, err)
		}
		return &updated, nil
	})
}

// DeleteEventWithFavorites removes the event record and every favorite
// row attached to it in one transaction. Deleting an id that does not
// exist is not an error.
func (mdb *MongodbRepo) DeleteEventWithFavorites(ctx context.Context, id string) error {
	const op = "store.deleteEvent"
	return mdb.WithTransaction(ctx, op, func(ctx context.Context) error {
		if _, err := mdb.collection(FavoriteColName).DeleteMany(ctx, bson.M{"eventid": id}); err != nil {
			return err
		}
		_, err := mdb.collection(EventColName).DeleteOne(ctx, bson.M{"_id": id})
		return err
	})
}

var _ EventRepo = (*MongodbRepo)(nil)
