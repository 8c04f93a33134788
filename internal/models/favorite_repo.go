package models

import (
	"context"
	"errors"

	"github.com/EGS-Tourist-Guide/event-service/internal/faults"
	"github.com/EGS-Tourist-Guide/event-service/internal/retry"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FavoriteRepo exposes the atomic primitives the favorite counter is
// built from. The status transitions are conditional updates, not
// read-then-write, so concurrent toggles for the same pair cannot
// double count; the unique (eventid, userid) index backs the upsert.
type FavoriteRepo interface {
	GetFavorite(ctx context.Context, eventID, userID string) (*Favorite, error)
	WithTransaction(ctx context.Context, op string, fn func(ctx context.Context) error) error
	SetFavoriteStatus(ctx context.Context, eventID, userID string, from, to bool) (bool, error)
	InsertFavorite(ctx context.Context, eventID, userID string, status bool) (bool, error)
	AdjustFavorites(ctx context.Context, eventID string, delta int) error
}

// GetFavorite returns (nil, nil) when the pair has no row.
func (mdb *MongodbRepo) GetFavorite(ctx context.Context, eventID, userID string) (*Favorite, error) {
	const op = "store.getFavorite"
	return retry.Do(ctx, op, retry.StoreDefaults(), func(ctx context.Context) (*Favorite, error) {
		var favorite Favorite
		err := mdb.collection(FavoriteColName).
			FindOne(ctx, bson.M{"eventid": eventID, "userid": userID}).
			Decode(&favorite)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, nil
			}
			return nil, storeErr(op, err)
		}
		return &favorite, nil
	})
}

// WithTransaction runs fn inside one Mongo transaction; every store
// call made with the context fn receives joins that transaction. The
// transaction as a whole is the retried unit, so an aborted attempt
// leaves no partial state behind before the next try.
func (mdb *MongodbRepo) WithTransaction(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	_, err := retry.Do(ctx, op, retry.StoreDefaults(), func(ctx context.Context) (struct{}, error) {
		session, err := mdb.mongodbClient.StartSession()
		if err != nil {
			return struct{}{}, storeErr(op, err)
		}
		defer session.EndSession(ctx)

		_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
			return nil, fn(sc)
		})
		if err != nil {
			return struct{}{}, storeErr(op, err)
		}
		return struct{}{}, nil
	})
	return err
}

// SetFavoriteStatus flips the row from one status to the other and
// reports whether a row actually transitioned. The precondition lives
// in the filter, so only one of several concurrent togglers wins.
func (mdb *MongodbRepo) SetFavoriteStatus(ctx context.Context, eventID, userID string, from, to bool) (bool, error) {
	res, err := mdb.collection(FavoriteColName).UpdateOne(ctx,
		bson.M{"eventid": eventID, "userid": userID, "favoritestatus": from},
		bson.M{"$set": bson.M{"favoritestatus": to}},
	)
	if err != nil {
		return false, storeErr("store.setFavoriteStatus", err)
	}
	return res.ModifiedCount == 1, nil
}

// InsertFavorite creates the row if the pair has none and reports
// whether an insert happened. An existing row, whatever its status, is
// left untouched; a duplicate-key race loser is reported as no insert.
func (mdb *MongodbRepo) InsertFavorite(ctx context.Context, eventID, userID string, status bool) (bool, error) {
	res, err := mdb.collection(FavoriteColName).UpdateOne(ctx,
		bson.M{"eventid": eventID, "userid": userID},
		bson.M{"$setOnInsert": bson.M{"eventid": eventID, "userid": userID, "favoritestatus": status}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, storeErr("store.insertFavorite", err)
	}
	return res.UpsertedCount == 1, nil
}

// AdjustFavorites moves the denormalized counter by delta atomically.
// A decrement never drives the counter negative: it only matches a
// positive count and is otherwise a no-op. An increment on a missing
// event is a not-found failure so the surrounding transaction rolls
// the favorite row back with it.
func (mdb *MongodbRepo) AdjustFavorites(ctx context.Context, eventID string, delta int) error {
	const op = "store.adjustFavorites"
	filter := bson.M{"_id": eventID}
	if delta < 0 {
		filter["favorites"] = bson.M{"$gt": 0}
	}
	res, err := mdb.collection(EventColName).UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"favorites": delta}})
	if err != nil {
		return storeErr(op, err)
	}
	if res.MatchedCount == 0 && delta > 0 {
		return faults.New(faults.KindNotFound, op, nil)
	}
	return nil
}

var _ FavoriteRepo = (*MongodbRepo)(nil)
