package core

import (
	"strings"
	"time"
)

// User is the identity stored alongside the access token.
type User struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

// UserFromEmail synthesizes the user record kept after login.
// The username is the local part of the email address.
func UserFromEmail(email string) User {
	username, _, _ := strings.Cut(email, "@")
	return User{Email: email, Username: username}
}

// Account is the created-user record returned by signup.
type Account struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Session is the authenticated identity held by the client.
// Token and User are either both set or both empty.
type Session struct {
	Token     string
	User      User
	ExpiresAt *time.Time
}

// IsZero reports whether the session is absent.
func (s Session) IsZero() bool {
	return s.Token == "" && s.User == (User{})
}

// Expired reports whether the token carries an expiry that is already past.
// Tokens without a readable expiry never expire from the client's point of view.
func (s Session) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && !now.Before(*s.ExpiresAt)
}
