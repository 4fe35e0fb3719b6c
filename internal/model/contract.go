package model

import "time"

// Contract binds one reservation to one concrete room for the physical stay
// (`contracts` table).  It is created at check-in and closed at check-out.
// At most one contract exists per reservation, and a room may have at most
// one open contract (CheckInAt set, CheckOutAt null) at any time.  This is
// the room-occupied invariant, independent of the reservation-level overlap
// check used for forward availability.
type Contract struct {
	ID            uint64
	ReservationID uint64
	RoomID        uint64
	RoomNumber    string
	CheckInAt     *time.Time
	CheckOutAt    *time.Time
}
