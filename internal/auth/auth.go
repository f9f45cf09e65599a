// Package auth defines the boundary to the host application's identity
// subsystem. The middleware only ever asks one question: is this request
// authenticated, and if so, who is the user.
package auth

import (
	"net/http"
	"time"
)

// User is the record the identity subsystem hands back for an authenticated
// request.
type User struct {
	ID         int64
	Username   string
	Email      string
	FullName   string
	Staff      bool
	Superuser  bool
	LastLogin  time.Time
	DateJoined time.Time
	Groups     []string
}

// UserProvider resolves the authenticated user for a request, if any.
type UserProvider interface {
	// UserFromRequest returns the authenticated user and true, or nil and
	// false for anonymous requests.
	UserFromRequest(r *http.Request) (*User, bool)
}
