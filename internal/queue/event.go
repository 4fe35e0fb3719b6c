// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a reservation is successfully
// confirmed at its provider and recorded locally. It carries enough for
// downstream consumers to log, notify, or trigger analytics without
// querying the primary database.
type BookingConfirmedEvent struct {
	BookingID    uint64  `json:"booking_id"`
	Reference    string  `json:"reference"`
	UserID       uint64  `json:"user_id"`
	Origin       string  `json:"origin"`
	Locator      string  `json:"locator"`
	HotelName    string  `json:"hotel_name"`
	RoomTypeName string  `json:"room_type_name"`
	CheckIn      string  `json:"check_in"`
	CheckOut     string  `json:"check_out"`
	Guests       int     `json:"guests"`
	TotalPrice   float64 `json:"total_price"`
	ConfirmedAt  string  `json:"confirmed_at"`
}
