package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/internhub/pkg/middleware/guard"
	"github.com/Skotchmaster/internhub/pkg/roles"
	"github.com/Skotchmaster/internhub/services/auth/internal/repo"
)

type Deps struct {
	AuthHandler      *AuthHTTP
	Repo             *repo.GormRepo
	AllowMissingPost bool
}

// Register mounts the auth routes. The authenticator must already be
// installed on e so guards can see the identity.
func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		sqlDB, err := d.Repo.DB.DB()
		if err != nil || sqlDB.PingContext(c.Request().Context()) != nil {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})

	auth := e.Group("/api/auth")
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/refresh", d.AuthHandler.Refresh)
	auth.POST("/logout", d.AuthHandler.Logout)
	auth.GET("/me", d.AuthHandler.Me, guard.RequireRoles(roles.User))

	// Ownership checks for callers that only need a yes or no.
	authorize := auth.Group("/authorize")
	authorize.GET("/companies/:id", allowed, guard.Ownership(guard.Company()))
	authorize.GET("/students/:id", allowed, guard.Ownership(guard.Student()))
	authorize.GET("/users/:id", allowed, guard.Ownership(guard.User()))
	authorize.GET("/posts/:id", allowed, guard.Ownership(guard.Post(postOwners{d.Repo}, d.AllowMissingPost)))

	e.DELETE("/api/companies/:id/sessions", d.AuthHandler.RevokeSessions, guard.Ownership(guard.Company()))
	e.DELETE("/api/admin/users/:id/sessions", d.AuthHandler.RevokeSessions, guard.RequireRoles(roles.Admin))
}

// SkipAuthenticator is the authenticator's skipper for the routes that read
// the refresh cookie themselves.
func SkipAuthenticator(c echo.Context) bool {
	switch c.Path() {
	case "/api/auth/login", "/api/auth/refresh", "/api/auth/logout":
		return true
	}
	return false
}

func allowed(c echo.Context) error { return c.NoContent(http.StatusNoContent) }

type postOwners struct {
	repo *repo.GormRepo
}

func (p postOwners) PostOwner(ctx context.Context, postID string) (string, error) {
	owner, err := p.repo.PostOwner(ctx, postID)
	if errors.Is(err, repo.ErrNotFound) {
		return "", fmt.Errorf("post %s: %w", postID, guard.ErrResourceNotFound)
	}
	return owner, err
}
