package models

import (
	"context"
	"errors"

	"github.com/EGS-Tourist-Guide/event-service/internal/retry"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type KeyRepo interface {
	GetKeyByID(ctx context.Context, id string) (*ApiKey, error)
	CreateKey(ctx context.Context, key *ApiKey) error
	SetKeyActive(ctx context.Context, id string, active bool) (bool, error)
}

// GetKeyByID looks up a key by its hash. Returns (nil, nil) on a miss.
func (mdb *MongodbRepo) GetKeyByID(ctx context.Context, id string) (*ApiKey, error) {
	const op = "store.getKey"
	return retry.Do(ctx, op, retry.StoreDefaults(), func(ctx context.Context) (*ApiKey, error) {
		var key ApiKey
		err := mdb.collection(KeyColName).FindOne(ctx, bson.M{"_id": id}).Decode(&key)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, nil
			}
			return nil, storeErr(op, err)
		}
		return &key, nil
	})
}

func (mdb *MongodbRepo) CreateKey(ctx context.Context, key *ApiKey) error {
	const op = "store.createKey"
	_, err := retry.Do(ctx, op, retry.StoreDefaults(), func(ctx context.Context) (struct{}, error) {
		if _, err := mdb.collection(KeyColName).InsertOne(ctx, key); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return struct{}{}, nil
			}
			return struct{}{}, storeErr(op, err)
		}
		return struct{}{}, nil
	})
	return err
}

// SetKeyActive flips the active flag and reports whether a key with the
// given hash existed.
func (mdb *MongodbRepo) SetKeyActive(ctx context.Context, id string, active bool) (bool, error) {
	const op = "store.setKeyActive"
	return retry.Do(ctx, op, retry.StoreDefaults(), func(ctx context.Context) (bool, error) {
		res, err := mdb.collection(KeyColName).UpdateOne(ctx,
			bson.M{"_id": id},
			bson.M{"$set": bson.M{"active": active}},
		)
		if err != nil {
			return false, storeErr(op, err)
		}
		return res.MatchedCount == 1, nil
	})
}

var _ KeyRepo = (*MongodbRepo)(nil)
