// Package models defines server-side data models persisted in the database.
package models

import "time"

// AccessLevel is the role attached to a user account.
type AccessLevel string

const (
	AccessLevelUser AccessLevel = "user"
	AccessLevelRoot AccessLevel = "root"
)

// ValidAccessLevel reports whether level names a known role.
func ValidAccessLevel(level AccessLevel) bool {
	switch level {
	case AccessLevelUser, AccessLevelRoot:
		return true
	}
	return false
}

// User is an account row. IDs are server-assigned UUIDs and immutable.
type User struct {
	ID          string
	AccessLevel AccessLevel
	CreatedAt   time.Time
}

// IsRoot reports whether the user holds the root role.
func (u *User) IsRoot() bool {
	return u.AccessLevel == AccessLevelRoot
}

// IsOwnerOrRoot is the ownership gate applied to every mutating content
// operation and to cross-user metadata reads: root may act on anything,
// everyone else only on their own rows.
func IsOwnerOrRoot(u *User, ownerID string) bool {
	return u.IsRoot() || u.ID == ownerID
}
