package domain

import (
	"errors"
	"strings"
)

const minCredentialLength = 6

var (
	ErrUsernameRequired = errors.New("Username is a required field")
	ErrUsernameTooShort = errors.New("Username must be at least 6 characters")
	ErrPasswordRequired = errors.New("Password is a required field")
	ErrPasswordTooShort = errors.New("Password must be at least 6 characters")
	ErrPasswordMismatch = errors.New("Passwords do not match")
)

// Identity is the caller's session context. It is passed explicitly into every
// gateway and coordinator call; token presence is the only "logged in" signal.
type Identity struct {
	Token    string
	Username string
	Balance  float64
}

// Anonymous is the identity of a caller without a session.
var Anonymous = Identity{}

// LoggedIn reports whether the identity carries a token
func (i Identity) LoggedIn() bool {
	return strings.TrimSpace(i.Token) != ""
}

// Credentials is the login form.
type Credentials struct {
	Username string
	Password string
}

// Validate checks that both fields are present
func (c Credentials) Validate() error {
	if c.Username == "" {
		return ErrUsernameRequired
	}
	if c.Password == "" {
		return ErrPasswordRequired
	}
	return nil
}

// Registration is the sign-up form.
type Registration struct {
	Username        string
	Password        string
	ConfirmPassword string
}

// Validate applies the registration rules in the order they are reported to the user.
func (r Registration) Validate() error {
	switch {
	case r.Username == "":
		return ErrUsernameRequired
	case len(r.Username) < minCredentialLength:
		return ErrUsernameTooShort
	case r.Password == "":
		return ErrPasswordRequired
	case len(r.Password) < minCredentialLength:
		return ErrPasswordTooShort
	case r.Password != r.ConfirmPassword:
		return ErrPasswordMismatch
	}
	return nil
}

// Credentials returns the login form for the registered account.
func (r Registration) Credentials() Credentials {
	return Credentials{Username: r.Username, Password: r.Password}
}
