package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Favorite marks whether a user currently favors an event. At most one
// row exists per (event, user) pair, enforced by a unique compound
// index; rows are flipped on subsequent toggles, never deleted except
// as a side effect of event deletion.
type Favorite struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID        string             `bson:"eventid" json:"eventId"`
	UserID         string             `bson:"userid" json:"userId"`
	FavoriteStatus bool               `bson:"favoritestatus" json:"favoriteStatus"`
}
