package models

import (
	"time"
)

const (
	EventColName    = "events"
	FavoriteColName = "favorites"
	KeyColName      = "apikeys"
)

// Event is the local slice of the aggregate. Scheduling data lives in
// the calendar collaborator and location data in the point-of-interest
// collaborator; CalendarID and PointOfInterestID tie the three
// together and never change after creation.
type Event struct {
	ID                  string    `bson:"_id" json:"uuid"`
	UserID              string    `bson:"userid" json:"userid"`
	Name                string    `bson:"name" json:"name"`
	Organizer           string    `bson:"organizer" json:"organizer"`
	City                string    `bson:"city" json:"city"`
	Category            string    `bson:"category" json:"category"`
	Contact             string    `bson:"contact" json:"contact"`
	About               string    `bson:"about" json:"about"`
	StartDate           time.Time `bson:"startdate" json:"startdate"`
	EndDate             time.Time `bson:"enddate" json:"enddate"`
	Price               float64   `bson:"price" json:"price"`
	Currency            string    `bson:"currency" json:"currency"`
	Favorites           int       `bson:"favorites" json:"favorites"`
	MaxParticipants     int       `bson:"maxparticipants,omitempty" json:"maxparticipants,omitempty"`
	CurrentParticipants int       `bson:"currentparticipants,omitempty" json:"currentparticipants,omitempty"`
	CalendarID          string    `bson:"calendarid" json:"calendarid"`
	PointOfInterestID   string    `bson:"pointofinterestid" json:"pointofinterestid"`
	Created             time.Time `bson:"created" json:"created"`
}

// EventRequest is the shape-validated inbound payload for create and
// update. Price arrives as a single combined field ("EUR25.55") and is
// split into currency and amount before it reaches the store. Exactly
// one of PointOfInterestID or PointOfInterest must resolve; when both
// are present the identity wins.
type EventRequest struct {
	UserID              string                  `json:"userid" binding:"required"`
	Name                string                  `json:"name" binding:"required,min=1,max=256"`
	Organizer           string                  `json:"organizer" binding:"required,min=1,max=256"`
	City                string                  `json:"city" binding:"required,min=1,max=256"`
	Category            string                  `json:"category" binding:"required"`
	Contact             string                  `json:"contact" binding:"required"`
	About               string                  `json:"about" binding:"required"`
	StartDate           time.Time               `json:"startdate" binding:"required"`
	EndDate             time.Time               `json:"enddate" binding:"required"`
	Price               string                  `json:"price" binding:"required"`
	MaxParticipants     int                     `json:"maxparticipants" binding:"omitempty,min=0"`
	CurrentParticipants int                     `json:"currentparticipants" binding:"omitempty,min=0"`
	PointOfInterestID   string                  `json:"pointofinterestid"`
	PointOfInterest     *PointOfInterestRequest `json:"pointofinterest"`
}

// PointOfInterestRequest carries the inline fields used to create a new
// point of interest when no identity was supplied.
type PointOfInterestRequest struct {
	Name      string  `json:"name" binding:"required,min=1,max=256"`
	Latitude  float64 `json:"latitude" binding:"required"`
	Longitude float64 `json:"longitude" binding:"required"`
	Category  string  `json:"category" binding:"required"`
	Thumbnail string  `json:"thumbnail"`
}

// EventView is the merged read model: scheduling fields from the
// calendar collaborator, location fields from the point-of-interest
// collaborator, everything else from the local record.
type EventView struct {
	Event
	Description string  `json:"description"`
	Location    string  `json:"location"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Thumbnail   string  `json:"thumbnail,omitempty"`
}
