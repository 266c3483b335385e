package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/internhub/pkg/logging"
	authmw "github.com/Skotchmaster/internhub/pkg/middleware/auth"
	"github.com/Skotchmaster/internhub/pkg/roles"
	"github.com/Skotchmaster/internhub/services/auth/internal/service"
	"github.com/Skotchmaster/internhub/services/auth/internal/transport"
)

type AuthHTTP struct {
	Svc          *service.SessionService
	CookieSecure bool
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		l.Warn("login_failed", "status", 400, "reason", "email or password missing")
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	role, ok := roles.Parse(strings.ToUpper(strings.TrimSpace(req.Role)))
	if !ok {
		l.Warn("login_failed", "status", 401, "reason", "unknown role", "role", req.Role)
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}
	res, err := h.Svc.Login(ctx, req.Email, req.Password, role)
	if err != nil {
		code, msg := statusFor(err)
		logFailure(l, "login_failed", code, err)
		return echo.NewHTTPError(code, msg)
	}

	c.SetCookie(refreshCookie(res.RefreshToken, res.RefreshExp, h.CookieSecure))
	c.Response().Header().Set(echo.HeaderAuthorization, "Bearer "+res.AccessToken)

	return c.JSON(http.StatusOK, transport.TokenResponse{AccessToken: res.AccessToken})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.refresh")

	cookie, err := c.Cookie(authmw.RefreshCookie)
	if err != nil || cookie.Value == "" {
		l.Warn("refresh_failed", "status", 401, "reason", "refresh cookie missing")
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid refresh token")
	}

	access, err := h.Svc.RefreshAccessToken(ctx, cookie.Value)
	if err != nil {
		code, msg := statusFor(err)
		logFailure(l, "refresh_failed", code, err)
		if code == http.StatusUnauthorized {
			c.SetCookie(clearRefreshCookie(h.CookieSecure))
		}
		return echo.NewHTTPError(code, msg)
	}

	c.Response().Header().Set(echo.HeaderAuthorization, "Bearer "+access)
	return c.JSON(http.StatusOK, transport.TokenResponse{AccessToken: access})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	cookie, err := c.Cookie(authmw.RefreshCookie)
	if err != nil || cookie.Value == "" {
		l.Warn("logout_failed", "status", 401, "reason", "refresh cookie missing")
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid refresh token")
	}

	if err := h.Svc.Logout(ctx, cookie.Value); err != nil {
		code, msg := statusFor(err)
		logFailure(l, "logout_failed", code, err)
		return echo.NewHTTPError(code, msg)
	}

	c.SetCookie(clearRefreshCookie(h.CookieSecure))
	return c.NoContent(http.StatusNoContent)
}

// Me echoes the identity the authenticator attached.
func (h *AuthHTTP) Me(c echo.Context) error {
	id := authmw.IdentityFrom(c)
	if id == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	return c.JSON(http.StatusOK, id)
}

// RevokeSessions ends every session of the principal in :id.
func (h *AuthHTTP) RevokeSessions(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.revoke_sessions")

	userID := c.Param("id")
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "id is required")
	}

	n, err := h.Svc.RevokeAll(ctx, userID)
	if err != nil {
		l.Error("revoke_sessions_failed", "status", 500, "user_id", userID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot revoke sessions")
	}
	return c.JSON(http.StatusOK, transport.RevokeResponse{Revoked: n})
}

// statusFor keeps 401 answers generic; the precise reason only goes to logs.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrPrincipalNotFound):
		return http.StatusNotFound, "Principal not found"
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func logFailure(l *slog.Logger, event string, code int, err error) {
	if code >= 500 {
		l.Error(event, "status", code, "error", err)
		return
	}
	l.Warn(event, "status", code, "error", err)
}
