package guard

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/internhub/pkg/logging"
	authmw "github.com/Skotchmaster/internhub/pkg/middleware/auth"
	"github.com/Skotchmaster/internhub/pkg/roles"
)

// ErrResourceNotFound is returned by lookups when the target does not exist.
var ErrResourceNotFound = errors.New("resource not found")

// PostOwnerLookup returns the id of the company that owns a post.
type PostOwnerLookup interface {
	PostOwner(ctx context.Context, postID string) (string, error)
}

// OwnerResolver maps a resource id to the id of its owner.
type OwnerResolver func(ctx context.Context, resourceID string) (string, error)

// Policy describes one ownership check. The identity's role must satisfy Role
// and its id must equal the route parameter Param, or the owner
// Resolve returns for it.
type Policy struct {
	Resource string
	Param    string
	Role     roles.Role
	Resolve  OwnerResolver
	// AllowMissing lets the request through when Resolve reports
	// ErrResourceNotFound.
	AllowMissing bool
}

func Company() Policy {
	return Policy{Resource: "company", Param: "id", Role: roles.Company}
}

func Student() Policy {
	return Policy{Resource: "student", Param: "id", Role: roles.Student}
}

func User() Policy {
	return Policy{Resource: "user", Param: "id", Role: roles.User}
}

// Post checks that the company behind the identity owns the post in :id.
func Post(lookup PostOwnerLookup, allowMissing bool) Policy {
	return Policy{
		Resource:     "post",
		Param:        "id",
		Role:         roles.Company,
		Resolve:      lookup.PostOwner,
		AllowMissing: allowMissing,
	}
}

func Ownership(p Policy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := p.check(c); err != nil {
				return err
			}
			return next(c)
		}
	}
}

func (p Policy) check(c echo.Context) error {
	id := authmw.IdentityFrom(c)
	if id == nil {
		return forbidden(reasonNotAuthed)
	}
	if id.Role == roles.Admin {
		return nil
	}
	if !id.Role.Satisfies(p.Role) {
		return forbidden(reasonWrongRole)
	}

	resourceID := c.Param(p.Param)
	if id.ID == "" || resourceID == "" {
		return forbidden(reasonUnverifiable)
	}

	owner := resourceID
	if p.Resolve != nil {
		var err error
		owner, err = p.Resolve(c.Request().Context(), resourceID)
		switch {
		case errors.Is(err, ErrResourceNotFound) && p.AllowMissing:
			return nil
		case errors.Is(err, ErrResourceNotFound):
			return forbidden(p.mismatch())
		case err != nil:
			logging.FromContext(c.Request().Context()).Error("ownership_lookup_failed", "resource", p.Resource, "id", resourceID, "error", err)
			return forbidden(reasonUnverifiable)
		}
	}

	if owner != id.ID {
		return forbidden(p.mismatch())
	}
	return nil
}

func (p Policy) mismatch() string {
	return "You can only modify your own " + p.Resource
}
