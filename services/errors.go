package services

import "errors"

var (
	// ErrLoginRequired is returned when an anonymous actor reaches an authenticated operation.
	ErrLoginRequired = errors.New("login required")
	// ErrForbidden is returned when the actor may not mutate the target.
	ErrForbidden = errors.New("not allowed to modify this resource")
)
