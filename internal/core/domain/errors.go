package domain

import "errors"

// Authentication and authorization.
var (
	ErrMissingCredentials  = errors.New("missing credentials")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrForbidden           = errors.New("access forbidden")
	ErrServerMisconfigured = errors.New("server misconfigured")
	ErrTooManyAttempts     = errors.New("too many failed login attempts")
)

// Uploads.
var (
	ErrUnsupportedMediaType = errors.New("file type not allowed")
	ErrPayloadTooLarge      = errors.New("file too large")
	ErrMissingFile          = errors.New("file is required")
	ErrInvalidFileName      = errors.New("invalid file name")
)

// Persistence.
var (
	ErrNotFound         = errors.New("resource not found")
	ErrUserExists       = errors.New("username already exists")
	ErrConflict         = errors.New("resource already exists")
	ErrInvalidReference = errors.New("referenced resource does not exist")
	ErrValueTooLong     = errors.New("value too long")
)
