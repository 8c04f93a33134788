package models

import (
	"time"
)

// ApiKey authenticates a client application. The identity is the
// sha256 hash of the client-supplied secret combined with the server
// secret; the plaintext is never stored.
type ApiKey struct {
	ID        string    `bson:"_id" json:"-"`
	AppID     string    `bson:"appid" json:"appId"`
	Active    bool      `bson:"active" json:"active"`
	CreatedAt time.Time `bson:"createdat" json:"createdAt"`
}
