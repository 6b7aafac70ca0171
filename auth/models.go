// Package auth implements user accounts and cookie-session authentication:
// registration, login/logout, the current-user endpoint, and the session
// middleware that resolves cookies to users for the rest of the API.
package auth

import "time"

// User is a user account. Email is the login identifier; HashedPassword is
// never serialized.
type User struct {
	ID             int64
	Email          string
	HashedPassword string
	FirstName      string
	LastName       string
	IsActive       bool
	CreatedAt      time.Time
}

// Session is a server-side login session referenced by an opaque cookie
// token. Logout deletes the row, which invalidates the cookie.
type Session struct {
	Token     string
	UserID    int64
	CreatedAt time.Time
	ExpiresAt time.Time
}
