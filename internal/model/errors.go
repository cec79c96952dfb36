package model

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")

	ErrEventNotFound = errors.New("event not found")

	// ErrParticipantsChanged is returned by the event store when a guarded
	// participant update matched the event but not the expected membership.
	ErrParticipantsChanged = errors.New("participants changed")
)
