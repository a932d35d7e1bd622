package errors

import "errors"

var (
	ErrNotFound = errors.New("holiday not found")

	ErrInvalidID = errors.New("invalid holiday ID format")

	ErrAlreadySubscribed = errors.New("already subscribed to holiday")
)
