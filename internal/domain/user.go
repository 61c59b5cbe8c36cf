package domain

import "strings"

// Role labels a user record for authorization decisions.
type Role string

const (
	RoleUnset  Role = ""
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

// ParseRole maps a stored role value onto a known Role. Unknown values are unset.
func ParseRole(raw string) Role {
	switch Role(strings.TrimSpace(raw)) {
	case RoleBuyer:
		return RoleBuyer
	case RoleSeller:
		return RoleSeller
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleUnset
	}
}

// Valid reports whether r is one of the assignable roles.
func (r Role) Valid() bool {
	return r == RoleBuyer || r == RoleSeller || r == RoleAdmin
}

func (r Role) String() string {
	return string(r)
}

// User is the authorization view of a record in the users collection.
type User struct {
	ID       string
	Name     string
	Email    string
	Role     Role
	Verified bool
}

// HasRole reports whether the user carries role. A nil user carries none.
func (u *User) HasRole(role Role) bool {
	if u == nil || !role.Valid() {
		return false
	}
	return u.Role == role
}

// UserFromDocument extracts the fields authorization cares about.
func UserFromDocument(doc Document) *User {
	if doc == nil {
		return nil
	}
	return &User{
		ID:       doc.String(FieldID),
		Name:     doc.String("name"),
		Email:    doc.String("email"),
		Role:     ParseRole(doc.String("role")),
		Verified: doc.Bool("verified"),
	}
}
