// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation on a resource owned by
// someone else, while ErrConflict signals that an operation
// cannot proceed due to existing state (e.g. checking in twice).
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an operation cannot be performed
// because of conflicting state, such as checking out of a contract
// that was never checked in, or cancelling a reservation after
// check-in. Handlers should translate this into an HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrHotelNotFound is returned when a hotel id or name filter
// matches no hotel row.
var ErrHotelNotFound = errors.New("hotel not found")

// ErrRoomTypeNotFound is returned when a room type category does
// not exist within the requested hotel.
var ErrRoomTypeNotFound = errors.New("room type not found")

// ErrRegimenNotFound is returned when the requested meal-plan code
// is not offered by the hotel.
var ErrRegimenNotFound = errors.New("regimen not offered by hotel")

// ErrNoAvailability is returned by the booking transaction when the
// capacity re-check finds every room of the requested type already
// reserved for an overlapping date range. Handlers should translate
// this into an HTTP 409.
var ErrNoAvailability = errors.New("no availability for the selected dates")

// ErrLocatorExists is returned when inserting a local booking record
// whose (origin, locator) pair already exists. The unique constraint
// guarantees at most one local record per upstream reservation.
var ErrLocatorExists = errors.New("locator already recorded")
