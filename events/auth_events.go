package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// UserSignedInEvent is emitted after a successful sign-in.
type UserSignedInEvent struct {
	UserID     string    `json:"user_id"`
	Email      string    `json:"email"`
	SignedInAt time.Time `json:"signed_in_at"`
}

// UserSignedInV1 is the typed event definition for sign-ins.
// Subject: events.auth.v1.user-signed-in
var UserSignedInV1 = helper.EventDefinition[UserSignedInEvent](
	"auth", "UserSignedIn", "v1",
)

// UserSignedOutEvent is emitted after a session is revoked.
type UserSignedOutEvent struct {
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	SignedOutAt time.Time `json:"signed_out_at"`
}

// UserSignedOutV1 is the typed event definition for sign-outs.
// Subject: events.auth.v1.user-signed-out
var UserSignedOutV1 = helper.EventDefinition[UserSignedOutEvent](
	"auth", "UserSignedOut", "v1",
)
