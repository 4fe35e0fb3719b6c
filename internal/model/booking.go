package model

import "time"

// Booking is the distribution layer's system-of-record reservation
// (`bookings` table), created exactly once per successful upstream booking.
// It cross-references the provider-issued locator and denormalizes the
// display fields so reads never depend on the upstream system being up.
// The (Origin, Locator) pair is unique within the store.
type Booking struct {
	ID           uint64    `json:"id"`
	Reference    string    `json:"reference"`
	UserID       uint64    `json:"user_id"`
	Origin       string    `json:"origin"`
	Locator      string    `json:"locator"`
	HotelName    string    `json:"hotel_name"`
	RoomTypeName string    `json:"room_type_name"`
	CheckIn      string    `json:"check_in"`
	CheckOut     string    `json:"check_out"`
	Guests       int       `json:"guests"`
	TotalPrice   float64   `json:"total_price"`
	Payload      []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
