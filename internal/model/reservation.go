package model

import "time"

// Reservation states as stored in the `status` column.  Only active
// reservations count against availability.
const (
	ReservationActive    = "ACTIVE"
	ReservationCancelled = "CANCELLED"
	ReservationCompleted = "COMPLETED"
)

// Reservation is one booking held against the inventory-owning store
// (`reservations` table).  The stay covers the half-open date range
// [CheckIn, CheckOut): the guest sleeps the night of CheckIn and leaves the
// morning of CheckOut.  A reservation of N nights owns exactly N StayNight
// rows, all sharing the same room type.
type Reservation struct {
	ID            uint64
	GuestID       uint64
	RegimenRateID uint64
	CheckIn       time.Time
	CheckOut      time.Time
	Channel       string
	Status        string
	CreatedAt     time.Time
}

// OverlapsStay reports whether the reservation blocks a room for any night
// of the half-open range [checkIn, checkOut).  Two stays overlap when each
// starts before the other ends; a reservation departing on checkIn shares
// no night with the queried stay.  Cancelled and completed reservations
// never block.  This is the same predicate the availability queries apply
// in SQL (`check_in < ? AND check_out > ?` over active reservations).
func (r Reservation) OverlapsStay(checkIn, checkOut time.Time) bool {
	if r.Status != ReservationActive {
		return false
	}
	return r.CheckIn.Before(checkOut) && r.CheckOut.After(checkIn)
}

// StayNight is one calendar night of occupancy for one room type
// (`stay_nights` table), belonging to exactly one reservation.
type StayNight struct {
	ID            uint64
	ReservationID uint64
	RoomTypeID    uint64
	Night         time.Time
}

// Guest mirrors the `guests` table.  Guests are deduplicated by national id
// first and e-mail second when a reservation is created; they are distinct
// from application users, which live in the distribution layer.
type Guest struct {
	ID         uint64
	FirstName  string
	LastName   string
	Email      string
	NationalID string
	BirthDate  *time.Time
}

// StayDates expands the half-open range [checkIn, checkOut) into the list of
// nights a reservation occupies, one date per night.  An empty slice is
// returned when checkOut is not after checkIn.
func StayDates(checkIn, checkOut time.Time) []time.Time {
	if !checkOut.After(checkIn) {
		return nil
	}
	nights := make([]time.Time, 0, int(checkOut.Sub(checkIn).Hours()/24))
	for d := checkIn; d.Before(checkOut); d = d.AddDate(0, 0, 1) {
		nights = append(nights, d)
	}
	return nights
}
