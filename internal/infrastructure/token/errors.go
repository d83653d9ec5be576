package token

import "errors"

var (
	// ErrUnauthorized wraps every failure that ended the session.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNoRefreshToken is returned when a refresh was needed but no usable
	// refresh token is held. No network call is made.
	ErrNoRefreshToken = errors.New("refresh token missing or malformed")

	// ErrMalformedToken is returned when the stored access token could not be
	// sent as a bearer credential.
	ErrMalformedToken = errors.New("access token malformed")

	// ErrIncompleteTokenPair is returned when login or refresh answers without
	// both tokens.
	ErrIncompleteTokenPair = errors.New("response did not contain both tokens")
)
