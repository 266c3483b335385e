package guard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authmw "github.com/Skotchmaster/internhub/pkg/middleware/auth"
	"github.com/Skotchmaster/internhub/pkg/roles"
)

func newCtx(id *authmw.Identity, param string) echo.Context {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/", nil), httptest.NewRecorder())
	if param != "" {
		c.SetParamNames("id")
		c.SetParamValues(param)
	}
	if id != nil {
		authmw.SetIdentity(c, id)
	}
	return c
}

func ok(c echo.Context) error { return c.NoContent(http.StatusOK) }

func assertForbidden(t *testing.T, err error, reason string) {
	t.Helper()
	var he *echo.HTTPError
	require.True(t, errors.As(err, &he), "want *echo.HTTPError, got %v", err)
	assert.Equal(t, http.StatusForbidden, he.Code)
	assert.Equal(t, reason, he.Message)
}

func TestRequireRoles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		identity *authmw.Identity
		required []roles.Role
		reason   string
	}{
		{name: "no roles declared", required: nil},
		{name: "anonymous", required: []roles.Role{roles.User}, reason: reasonRoleNotFound},
		{name: "identity without role", identity: &authmw.Identity{ID: "1"}, required: []roles.Role{roles.User}, reason: reasonRoleNotFound},
		{name: "company satisfies user", identity: &authmw.Identity{ID: "1", Role: roles.Company}, required: []roles.Role{roles.User}},
		{name: "admin satisfies company", identity: &authmw.Identity{ID: "1", Role: roles.Admin}, required: []roles.Role{roles.Company}},
		{name: "user is not admin", identity: &authmw.Identity{ID: "1", Role: roles.User}, required: []roles.Role{roles.Admin}, reason: reasonAccessDenied},
		{name: "company is not student", identity: &authmw.Identity{ID: "1", Role: roles.Company}, required: []roles.Role{roles.Student}, reason: reasonAccessDenied},
		{name: "any of several", identity: &authmw.Identity{ID: "1", Role: roles.Student}, required: []roles.Role{roles.Company, roles.Student}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := RequireRoles(tt.required...)(ok)(newCtx(tt.identity, ""))
			if tt.reason == "" {
				assert.NoError(t, err)
				return
			}
			assertForbidden(t, err, tt.reason)
		})
	}
}

func TestOwnership_Direct(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		policy   Policy
		identity *authmw.Identity
		param    string
		reason   string
	}{
		{name: "own company", policy: Company(), identity: &authmw.Identity{ID: "A", Role: roles.Company}, param: "A"},
		{name: "other company", policy: Company(), identity: &authmw.Identity{ID: "A", Role: roles.Company}, param: "B", reason: "You can only modify your own company"},
		{name: "admin bypass", policy: Company(), identity: &authmw.Identity{ID: "X", Role: roles.Admin}, param: "B"},
		{name: "admin bypass without param", policy: Student(), identity: &authmw.Identity{Role: roles.Admin}},
		{name: "anonymous", policy: Company(), param: "A", reason: reasonNotAuthed},
		{name: "student on company resource", policy: Company(), identity: &authmw.Identity{ID: "A", Role: roles.Student}, param: "A", reason: reasonWrongRole},
		{name: "missing param", policy: Company(), identity: &authmw.Identity{ID: "A", Role: roles.Company}, reason: reasonUnverifiable},
		{name: "missing identity id", policy: Company(), identity: &authmw.Identity{Role: roles.Company}, param: "A", reason: reasonUnverifiable},
		{name: "own student", policy: Student(), identity: &authmw.Identity{ID: "S", Role: roles.Student}, param: "S"},
		{name: "other student", policy: Student(), identity: &authmw.Identity{ID: "S", Role: roles.Student}, param: "T", reason: "You can only modify your own student"},
		{name: "student owns its user", policy: User(), identity: &authmw.Identity{ID: "S", Role: roles.Student}, param: "S"},
		{name: "other user", policy: User(), identity: &authmw.Identity{ID: "U", Role: roles.User}, param: "V", reason: "You can only modify your own user"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := Ownership(tt.policy)(ok)(newCtx(tt.identity, tt.param))
			if tt.reason == "" {
				assert.NoError(t, err)
				return
			}
			assertForbidden(t, err, tt.reason)
		})
	}
}

type postOwners map[string]string

func (p postOwners) PostOwner(_ context.Context, id string) (string, error) {
	if id == "broken" {
		return "", errors.New("db down")
	}
	owner, ok := p[id]
	if !ok {
		return "", ErrResourceNotFound
	}
	return owner, nil
}

func TestOwnership_Post(t *testing.T) {
	t.Parallel()

	posts := postOwners{"p1": "A"}
	company := &authmw.Identity{ID: "A", Role: roles.Company}
	other := &authmw.Identity{ID: "B", Role: roles.Company}

	tests := []struct {
		name         string
		identity     *authmw.Identity
		param        string
		allowMissing bool
		reason       string
	}{
		{name: "owner", identity: company, param: "p1"},
		{name: "not owner", identity: other, param: "p1", reason: "You can only modify your own post"},
		{name: "missing post allowed", identity: other, param: "nope", allowMissing: true},
		{name: "missing post denied", identity: other, param: "nope", reason: "You can only modify your own post"},
		{name: "lookup failure", identity: company, param: "broken", allowMissing: true, reason: reasonUnverifiable},
		{name: "admin", identity: &authmw.Identity{ID: "Z", Role: roles.Admin}, param: "p1"},
		{name: "student", identity: &authmw.Identity{ID: "A", Role: roles.Student}, param: "p1", reason: reasonWrongRole},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := Ownership(Post(posts, tt.allowMissing))(ok)(newCtx(tt.identity, tt.param))
			if tt.reason == "" {
				assert.NoError(t, err)
				return
			}
			assertForbidden(t, err, tt.reason)
		})
	}
}
