package domain

import "errors"

var (
	// Query errors
	ErrInvalidQuery = errors.New("invalid query")

	// Record errors
	ErrInvalidRecord   = errors.New("invalid record")
	ErrRecordNotFound  = errors.New("record not found")
	ErrDuplicateRecord = errors.New("record already exists")

	// Access errors
	ErrAccessDenied    = errors.New("access denied")
	ErrOutOfScope      = errors.New("record is outside of the caller's location scope")
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidIdentity = errors.New("invalid identity")
)

// Session errors
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)
