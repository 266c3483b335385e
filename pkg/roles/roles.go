// Package roles defines the closed set of principal roles and the static
// implication map used for coarse-grained authorization.
package roles

type Role string

const (
	User    Role = "USER"
	Student Role = "STUDENT"
	Company Role = "COMPANY"
	Admin   Role = "ADMIN"
)

var hierarchy = map[Role][]Role{
	User:    {User},
	Student: {Student, User},
	Company: {Company, User},
	Admin:   {Admin, Company, Student, User},
}

// Parse returns the role named by s. Unknown names yield ok == false.
func Parse(s string) (Role, bool) {
	r := Role(s)
	_, ok := hierarchy[r]
	return r, ok
}

func (r Role) String() string { return string(r) }

// Implied returns every role r satisfies, r included. The returned slice is
// a copy; an unknown role implies nothing.
func Implied(r Role) []Role {
	src := hierarchy[r]
	out := make([]Role, len(src))
	copy(out, src)
	return out
}

// Satisfies reports whether r implies target.
func (r Role) Satisfies(target Role) bool {
	for _, implied := range hierarchy[r] {
		if implied == target {
			return true
		}
	}
	return false
}

// SatisfiesAny reports whether the roles implied by r intersect required.
func (r Role) SatisfiesAny(required ...Role) bool {
	for _, req := range required {
		if r.Satisfies(req) {
			return true
		}
	}
	return false
}
