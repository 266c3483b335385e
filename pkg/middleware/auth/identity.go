package authmw

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/internhub/pkg/roles"
	"github.com/Skotchmaster/internhub/pkg/tokens"
)

const identityKey = "identity"

// Identity is the one shape every guard reads. Ids are compared as strings.
type Identity struct {
	ID    string     `json:"id"`
	Email string     `json:"email,omitempty"`
	Role  roles.Role `json:"role"`
}

func identityFromClaims(c *tokens.AccessClaims) *Identity {
	return &Identity{ID: c.Subject, Email: c.Email, Role: c.Role}
}

func SetIdentity(c echo.Context, id *Identity) {
	c.Set(identityKey, id)
}

// IdentityFrom returns the identity attached by the authenticator, or nil.
func IdentityFrom(c echo.Context) *Identity {
	id, _ := c.Get(identityKey).(*Identity)
	return id
}
