package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/internhub/gateway/internal/middleware"
	authmw "github.com/Skotchmaster/internhub/pkg/middleware/auth"
	"github.com/Skotchmaster/internhub/pkg/middleware/guard"
	"github.com/Skotchmaster/internhub/pkg/roles"
)

type Deps struct {
	AuthURL string
	APIURL  string

	Authenticator *authmw.Authenticator
	Logger        *slog.Logger
}

var writeMethods = []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete}

func Register(e *echo.Echo, d *Deps) error {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	for _, m := range middleware.Common(d.Logger) {
		e.Use(m)
	}

	authProxy, err := newProxy(d.AuthURL)
	if err != nil {
		return err
	}
	apiProxy, err := newProxy(d.APIURL)
	if err != nil {
		return err
	}

	// the auth service runs its own authenticator
	e.Any("/api/auth/*", authProxy)

	api := e.Group("/api", d.Authenticator.Middleware, middleware.ForwardIdentity)

	// reads pass through; writes need ownership or a role
	writes := []struct {
		path  string
		guard echo.MiddlewareFunc
	}{
		{"/companies/:id", guard.Ownership(guard.Company())},
		{"/companies/:id/*", guard.Ownership(guard.Company())},
		{"/students/:id", guard.Ownership(guard.Student())},
		{"/students/:id/*", guard.Ownership(guard.Student())},
		{"/users/:id", guard.Ownership(guard.User())},
		{"/users/:id/*", guard.Ownership(guard.User())},
		{"/posts", guard.RequireRoles(roles.Company)},
		{"/posts/*", guard.RequireRoles(roles.Company)},
	}
	for _, w := range writes {
		api.Match(writeMethods, w.path, apiProxy, w.guard)
		api.GET(w.path, apiProxy)
	}

	api.Any("/admin/*", apiProxy, guard.RequireRoles(roles.Admin))

	api.GET("/*", apiProxy)

	return nil
}
