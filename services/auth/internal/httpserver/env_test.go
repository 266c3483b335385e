package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/internhub/pkg/config"
	"github.com/Skotchmaster/internhub/pkg/events"
	authmw "github.com/Skotchmaster/internhub/pkg/middleware/auth"
	"github.com/Skotchmaster/internhub/pkg/roles"
	"github.com/Skotchmaster/internhub/pkg/tokens"
	"github.com/Skotchmaster/internhub/services/auth/internal/repo"
	"github.com/Skotchmaster/internhub/services/auth/internal/service"
	"github.com/Skotchmaster/internhub/services/auth/internal/testutil"
)

// countingRefresher records how often the authenticator refreshes.
type countingRefresher struct {
	svc   *service.SessionService
	calls atomic.Int32
}

func (r *countingRefresher) RefreshAccessToken(ctx context.Context, tok string) (string, error) {
	r.calls.Add(1)
	return r.svc.RefreshAccessToken(ctx, tok)
}

type testEnv struct {
	T         *testing.T
	E         *echo.Echo
	A         *AuthHTTP
	DB        *gorm.DB
	Repo      *repo.GormRepo
	Codec     *tokens.Codec
	MWRefresh *countingRefresher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.NewDB(t)
	r := &repo.GormRepo{DB: db}
	codec, err := tokens.NewCodec(config.Tokens{
		AccessSecret:    []byte("access-secret"),
		RefreshSecret:   []byte("refresh-secret"),
		AccessLifespan:  15 * time.Minute,
		RefreshLifespan: 60 * time.Minute,
	})
	require.NoError(t, err)

	svc := service.NewSessionService(codec, r, map[roles.Role]service.Directory{
		roles.Company: service.CompanyDirectory{Repo: r},
	}, events.Nop{})

	env := &testEnv{
		T:     t,
		E:     echo.New(),
		A:     &AuthHTTP{Svc: svc, CookieSecure: true},
		DB:    db,
		Repo:  r,
		Codec: codec,
	}
	env.MWRefresh = &countingRefresher{svc: svc}
	authenticator := authmw.NewAuthenticator(codec, env.MWRefresh)
	authenticator.Skipper = SkipAuthenticator
	env.E.Use(authenticator.Middleware)
	Register(env.E, &Deps{AuthHandler: env.A, Repo: r, AllowMissingPost: true})
	return env
}

func (env *testEnv) newRequest(method, path string, body any, cookies ...*http.Cookie) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	return req
}

// doJSONRequest builds a context for calling a handler directly.
func (env *testEnv) doJSONRequest(method, path string, body any, cookies ...*http.Cookie) (*httptest.ResponseRecorder, echo.Context) {
	rec := httptest.NewRecorder()
	c := env.E.NewContext(env.newRequest(method, path, body, cookies...), rec)
	return rec, c
}

// serve runs req through the full router, middleware included.
func (env *testEnv) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

type session struct {
	Access  string
	Refresh *http.Cookie
}

func (env *testEnv) login(email, password string) session {
	env.T.Helper()

	rec, c := env.doJSONRequest(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
		"role":     "COMPANY",
	})
	require.NoError(env.T, env.A.Login(c))
	require.Equal(env.T, http.StatusOK, rec.Code)

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(env.T, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(env.T, resp.AccessToken)

	var refresh *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == authmw.RefreshCookie {
			refresh = ck
		}
	}
	require.NotNil(env.T, refresh)
	return session{Access: resp.AccessToken, Refresh: &http.Cookie{Name: refresh.Name, Value: refresh.Value}}
}

func bearer(tok string) string { return "Bearer " + tok }
