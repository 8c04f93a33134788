package models

import (
	"time"

	"github.com/EGS-Tourist-Guide/event-service/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ListFilter is the derived query for ListEvents. Zero values mean the
// field is not filtered on.
type ListFilter struct {
	Search    string
	Name      string
	Organizer string
	City      string
	Category  string

	StartDate  *time.Time
	BeforeDate *time.Time
	AfterDate  *time.Time
	MaxPrice   *float64

	Limit  int64
	Offset int64
}

// Query translates the filter into a Mongo query document. A generic
// search term becomes a case-insensitive substring match OR-ed across
// the configured text fields. A startdate filter suppresses the
// beforedate/afterdate range filters.
func (f ListFilter) Query() bson.M {
	query := bson.M{}

	if f.Name != "" {
		query["name"] = f.Name
	}
	if f.Organizer != "" {
		query["organizer"] = f.Organizer
	}
	if f.City != "" {
		query["city"] = f.City
	}
	if f.Category != "" {
		query["category"] = f.Category
	}

	if f.Search != "" {
		conditions := make(bson.A, 0, len(config.GenericSearchFields))
		for _, field := range config.GenericSearchFields {
			conditions = append(conditions, bson.M{
				field: primitive.Regex{Pattern: f.Search, Options: "i"},
			})
		}
		query["$or"] = conditions
	}

	if f.StartDate != nil {
		query["startdate"] = *f.StartDate
	} else {
		if f.BeforeDate != nil {
			query["enddate"] = bson.M{"$lte": *f.BeforeDate}
		}
		if f.AfterDate != nil {
			query["startdate"] = bson.M{"$gte": *f.AfterDate}
		}
	}

	if f.MaxPrice != nil {
		query["price"] = bson.M{"$lte": *f.MaxPrice}
	}

	return query
}

// Bounds returns the effective pagination window, applying the default
// and the cap.
func (f ListFilter) Bounds() (limit, offset int64) {
	limit = f.Limit
	if limit <= 0 {
		limit = config.DefaultListLimit
	}
	if limit > config.MaxListLimit {
		limit = config.MaxListLimit
	}
	offset = f.Offset
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
