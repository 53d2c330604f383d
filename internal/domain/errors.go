package domain

import "errors"

var (
	// ErrNotFound indicates the target record does not exist
	ErrNotFound = errors.New("resource not found")
	// ErrDuplicateUsername indicates the username is already registered
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrDuplicateEmail indicates the email is already registered
	ErrDuplicateEmail = errors.New("email already exists")
	// ErrInvalidRequest indicates invalid request
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnauthorized indicates unauthorized access
	ErrUnauthorized = errors.New("unauthorized")
)
