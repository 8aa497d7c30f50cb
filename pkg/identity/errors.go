package identity

import "errors"

var (
	ErrInvalidToken      = errors.New("identity: invalid session token")
	ErrExpiredToken      = errors.New("identity: session token is expired")
	ErrInvalidSignature  = errors.New("identity: invalid token signature")
	ErrUnexpectedSigning = errors.New("identity: unexpected signing method")
	ErrMissingSigningKey = errors.New("identity: missing signing key")
	ErrUnauthenticated   = errors.New("identity: no authenticated user")
)
