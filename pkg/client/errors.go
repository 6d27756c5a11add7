package client

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials covers wrong password and unknown accounts alike.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountPending is returned for doctors still awaiting admin approval.
	ErrAccountPending = errors.New("account pending admin verification")
	// ErrUnreachable means the backend could not be contacted at all.
	ErrUnreachable = errors.New("could not connect to the server")
	// ErrNotFound maps 404 responses on lookups.
	ErrNotFound = errors.New("not found")
	// ErrServer maps any 5xx response.
	ErrServer = errors.New("server error")
)

// RoleMismatchError is raised when credentials are valid but the account's
// role does not match the login tab the user picked.
type RoleMismatchError struct {
	Actual Role
}

func (e *RoleMismatchError) Error() string {
	return fmt.Sprintf("account role is %q, not the selected role", e.Actual)
}

// ValidationError is a client-side rejection; no network call was made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// TokenError carries the backend's own message for an invalid, expired or
// already-used reset token, verbatim.
type TokenError struct {
	Message string
}

func (e *TokenError) Error() string { return e.Message }
