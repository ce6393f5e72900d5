package domain

import (
	"strings"
	"time"
)

// Role is the authorization level attached to an account and to every
// principal derived from it.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

// ParseRole normalises s into a Role. Unknown values yield ok=false.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, r.Valid()
}

// User models an account. PasswordHash never leaves the service boundary.
type User struct {
	ID           int64      `json:"id"                  db:"id"`
	FullName     string     `json:"fullName"            db:"full_name"`
	Login        string     `json:"login"               db:"login"`
	PasswordHash string     `json:"-"                   db:"password"`
	Image        *string    `json:"image,omitempty"     db:"image"`
	Role         Role       `json:"role"                db:"role"`
	CreatedAt    time.Time  `json:"createdAt"           db:"created_at"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty" db:"updated_at"`
}

// Principal returns the identity a token issued for u would carry.
func (u *User) Principal() Principal {
	return Principal{ID: u.ID, Role: u.Role}
}

// UserSummary is the public projection of a user embedded in other resources.
type UserSummary struct {
	ID       int64   `json:"id"`
	FullName string  `json:"fullName"`
	Login    string  `json:"login"`
	Image    *string `json:"image,omitempty"`
}
