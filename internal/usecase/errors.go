package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrParse                 = errors.New("malformed raw value")
	ErrMissingKey            = errors.New("required key missing from raw payload")
	ErrCoercion              = errors.New("value cannot be coerced to target type")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
