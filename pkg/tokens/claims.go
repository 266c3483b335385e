package tokens

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/Skotchmaster/internhub/pkg/roles"
)

// AccessClaims is the payload of a short-lived access token. RTI names the
// refresh record the token was minted against.
type AccessClaims struct {
	Email string     `json:"email,omitempty"`
	Role  roles.Role `json:"role"`
	RTI   string     `json:"rti"`
	jwt.RegisteredClaims
}

// RefreshClaims is the payload of the long-lived refresh token handed to the
// client as a cookie. RecordID is the id of the persisted refresh record.
type RefreshClaims struct {
	RecordID string     `json:"_id"`
	Role     roles.Role `json:"role"`
	jwt.RegisteredClaims
}

type AccessPayload struct {
	Subject string
	Email   string
	Role    roles.Role
	RTI     string
}

type RefreshPayload struct {
	RecordID string
	Subject  string
	Role     roles.Role
}
