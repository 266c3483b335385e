// Package guard holds per-route authorization middleware. Guards read the
// Identity attached by the authenticator and answer 403 on refusal.
package guard

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/Skotchmaster/internhub/pkg/middleware/auth"
	"github.com/Skotchmaster/internhub/pkg/roles"
)

const (
	reasonAccessDenied = "Access denied"
	reasonRoleNotFound = "User role not found"
	reasonNotAuthed    = "User not authenticated"
	reasonUnverifiable = "Ownership cannot be verified"
	reasonWrongRole    = "You can't access this resource"
)

func forbidden(reason string) error {
	return echo.NewHTTPError(http.StatusForbidden, reason)
}

// RequireRoles allows the request when the identity's role satisfies any of
// required through the hierarchy. With no required roles every request passes.
func RequireRoles(required ...roles.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if len(required) == 0 {
				return next(c)
			}
			id := authmw.IdentityFrom(c)
			if id == nil || id.Role == "" {
				return forbidden(reasonRoleNotFound)
			}
			if !id.Role.SatisfiesAny(required...) {
				return forbidden(reasonAccessDenied)
			}
			return next(c)
		}
	}
}
