package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrAgendaNotFound is returned when no sheet row carries the agenda number
	ErrAgendaNotFound = errors.New("agenda number not found in sheet")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)
