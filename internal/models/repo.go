package models

import (
	"context"
	"errors"

	"github.com/EGS-Tourist-Guide/event-service/internal/faults"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

var Validate = validator.New()

type MongodbRepo struct {
	mongodbClient *mongo.Client
	dbName        string
}

func MongodbNewRepo(mongodbClient *mongo.Client, dbName string) *MongodbRepo {
	return &MongodbRepo{
		mongodbClient: mongodbClient,
		dbName:        dbName,
	}
}

func (mdb *MongodbRepo) collection(name string) *mongo.Collection {
	return mdb.mongodbClient.Database(mdb.dbName).Collection(name)
}

// storeErr classifies a driver error so the retry executor can tell
// transient failures from domain ones.
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var fe *faults.Error
	if errors.As(err, &fe) {
		return err
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded) || mongo.IsTimeout(err):
		return faults.New(faults.KindTimeout, op, err)
	case mongo.IsNetworkError(err):
		return faults.New(faults.KindTransport, op, err)
	default:
		return faults.New(faults.KindInternal, op, err)
	}
}
