package domain

import "time"

// Role is the closed set of authorization roles a user can hold.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// IsAdmin is the elevation predicate used by ownership checks.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// User is the persisted account record. PasswordHash is excluded from JSON
// so the credential can never leak through a response payload.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Redacted returns a copy of u with the password hash cleared. Services hand
// out redacted copies so the stored digest cannot leak even through
// non-JSON paths.
func (u *User) Redacted() *User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.PasswordHash = ""
	return &clone
}

// Identity is the request-scoped principal reconstructed from a verified
// token on each request. It is never persisted.
type Identity struct {
	UserID string
	Role   Role
}

// CanModify reports whether the identity may mutate the user with the given
// id: admins may touch anyone, everyone else only themselves.
func (i Identity) CanModify(userID string) bool {
	return i.Role.IsAdmin() || i.UserID == userID
}

// userFields is the set of record fields a caller may reference in sort
// specs and field projections. The password hash is deliberately absent.
var userFields = map[string]struct{}{
	"id":         {},
	"username":   {},
	"email":      {},
	"role":       {},
	"created_at": {},
	"updated_at": {},
}

// IsUserField reports whether name is a known, externally referencable
// record field. Caller-supplied sort and projection field names must pass
// this check before they reach the store.
func IsUserField(name string) bool {
	_, ok := userFields[name]
	return ok
}
