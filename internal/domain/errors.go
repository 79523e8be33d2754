package domain

import (
	"errors"
	"strings"
)

var (
	ErrNotFound        = errors.New("reservation not found")
	ErrPastReservation = errors.New("cannot cancel past bookings")
	ErrResourceBusy    = errors.New("resource is busy, try again")
)

// ValidationError carries every rule violation found for a request.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}

// ConflictError is returned when a candidate interval collides with existing reservations.
type ConflictError struct {
	ConflictingBookings []Reservation
	Message             string
}

func (e *ConflictError) Error() string {
	return e.Message
}
