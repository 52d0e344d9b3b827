package domain

import "errors"

// Sentinel errors shared across services and repositories.
var (
	// ErrNotFound is returned when an entity, version, or token does not resolve.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the caller is authenticated but not the owner.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidInput is returned when a request is structurally valid but semantically wrong.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDuplicateInvite is returned when an email is already invited to the event.
	ErrDuplicateInvite = errors.New("email already invited")
	// ErrEventFull is returned when accepting an RSVP would exceed the event capacity.
	ErrEventFull = errors.New("event is at capacity")
	// ErrAlreadyResponded is returned when an invitation was already accepted or declined.
	ErrAlreadyResponded = errors.New("invitation already responded")
)
