package authmw

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/internhub/pkg/logging"
	"github.com/Skotchmaster/internhub/pkg/tokens"
)

const (
	RefreshCookie = "refreshToken"
	bearerPrefix  = "Bearer "
)

var (
	errNoToken        = errors.New("no token")
	errRefreshExpired = errors.New("refresh token expired")
)

// Refresher mints a new access token from a raw refresh token. The Session
// Service satisfies it in-process, authclient.Client over HTTP.
type Refresher interface {
	RefreshAccessToken(ctx context.Context, refreshToken string) (string, error)
}

type Authenticator struct {
	Codec     *tokens.Codec
	Refresher Refresher
	// Skipper lets routes that handle tokens themselves bypass the
	// authenticator.
	Skipper echomw.Skipper
}

func NewAuthenticator(codec *tokens.Codec, refresher Refresher) *Authenticator {
	return &Authenticator{Codec: codec, Refresher: refresher}
}

// Middleware attaches an Identity when the request carries a valid access
// token, or a refresh cookie that can be exchanged for one. It never rejects
// a request: guards downstream decide what an anonymous request may do.
func (a *Authenticator) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if a.Skipper != nil && a.Skipper(c) {
			return next(c)
		}
		if id := a.safeAuthenticate(c); id != nil {
			SetIdentity(c, id)
		}
		return next(c)
	}
}

// safeAuthenticate folds every failure, panics included, into a nil identity.
func (a *Authenticator) safeAuthenticate(c echo.Context) (id *Identity) {
	l := logging.FromContext(c.Request().Context())
	defer func() {
		if r := recover(); r != nil {
			l.Error("authenticate_panic", "error", fmt.Sprint(r))
			id = nil
		}
	}()

	id, reason := a.authenticate(c)
	if id == nil && !errors.Is(reason, errNoToken) {
		l.Debug("authenticate_skipped", "reason", reason.Error())
	}
	return id
}

func (a *Authenticator) authenticate(c echo.Context) (*Identity, error) {
	id, accessErr := a.fromAccessHeader(c)
	if id != nil {
		return id, nil
	}

	id, err := a.fromRefreshCookie(c)
	if err != nil {
		if errors.Is(err, errNoToken) && accessErr != nil && !errors.Is(accessErr, errNoToken) {
			return nil, accessErr
		}
		return nil, err
	}
	return id, nil
}

func (a *Authenticator) fromAccessHeader(c echo.Context) (*Identity, error) {
	tok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
	if tok == "" {
		return nil, errNoToken
	}
	claims, err := a.Codec.VerifyAccess(tok)
	if err != nil {
		return nil, fmt.Errorf("access token: %w", err)
	}
	return identityFromClaims(claims), nil
}

// fromRefreshCookie leaves an expired record in place; the Session Service
// deletes it when the token is actually used.
func (a *Authenticator) fromRefreshCookie(c echo.Context) (*Identity, error) {
	cookie, err := c.Cookie(RefreshCookie)
	if err != nil || cookie.Value == "" {
		return nil, errNoToken
	}

	claims, err := a.Codec.VerifyRefresh(cookie.Value)
	if err != nil {
		return nil, fmt.Errorf("refresh token: %w", err)
	}
	if claims.ExpiresAt == nil || claims.ExpiresAt.Time.Before(a.Codec.Now()) {
		return nil, errRefreshExpired
	}
	if a.Refresher == nil {
		return nil, errors.New("no refresher configured")
	}

	access, err := a.Refresher.RefreshAccessToken(c.Request().Context(), cookie.Value)
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}
	c.Response().Header().Set(echo.HeaderAuthorization, bearerPrefix+access)

	fresh, err := a.Codec.VerifyAccess(access)
	if err != nil {
		return nil, fmt.Errorf("refreshed access token: %w", err)
	}
	return identityFromClaims(fresh), nil
}

func bearerToken(header string) string {
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(header[len(bearerPrefix):])
}
