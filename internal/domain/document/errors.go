package document

import "errors"

var (
	// ErrNotFound indicates no document matches the requested id.
	ErrNotFound = errors.New("document not found")
	// ErrNoTargets indicates an expedition append with no target documents.
	ErrNoTargets = errors.New("at least one target document is required")
	// ErrMissingRecipient indicates an expedition append with a blank recipient.
	ErrMissingRecipient = errors.New("recipient is required")
	// ErrMissingTime indicates an expedition append with a blank hand-off time.
	ErrMissingTime = errors.New("time is required")
	// ErrMissingAgendaNo indicates a local document creation without an agenda number.
	ErrMissingAgendaNo = errors.New("agenda number is required")
)
