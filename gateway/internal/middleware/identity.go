package middleware

import (
	"github.com/labstack/echo/v4"

	authmw "github.com/Skotchmaster/internhub/pkg/middleware/auth"
)

const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

// ForwardIdentity replaces any client supplied identity headers with the
// identity the authenticator attached, so upstreams can trust them.
func ForwardIdentity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		h := c.Request().Header
		h.Del(HeaderUserID)
		h.Del(HeaderUserRole)
		if id := authmw.IdentityFrom(c); id != nil {
			h.Set(HeaderUserID, id.ID)
			h.Set(HeaderUserRole, id.Role.String())
		}
		return next(c)
	}
}
