package service

import "errors"

var (
	// ErrInvalidInvite is returned when an invite lacks a username or a valid email.
	ErrInvalidInvite = errors.New("invalid username or email")
	// ErrInvalidSnapshot is returned when a snapshot lacks its image or notes.
	ErrInvalidSnapshot = errors.New("missing canvasImage or stickyNotes")
)
