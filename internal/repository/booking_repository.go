package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iberstay/hotel-distribution/internal/model"
)

// BookingRepo persists the distribution layer's local reservation records.
// A row is written exactly once per successful upstream booking and is
// immutable afterwards.  The (origin, locator) pair carries a unique
// constraint so one upstream reservation can never be recorded twice.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// Create inserts a local booking record and populates the generated id and
// creation timestamp.  Returns ErrLocatorExists when the (origin, locator)
// pair is already recorded.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO bookings (reference, user_id, origin, locator, hotel_name, room_type_name,
                               check_in, check_out, guests, total_price, payload)
         VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		b.Reference, b.UserID, b.Origin, b.Locator, b.HotelName, b.RoomTypeName,
		b.CheckIn, b.CheckOut, b.Guests, b.TotalPrice, b.Payload)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrLocatorExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)

	const sel = `SELECT created_at FROM bookings WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, b.ID).Scan(&b.CreatedAt)
}

// ListByUser returns all local booking records belonging to a user, newest
// first.  When the user has no bookings an empty slice is returned.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	const q = `SELECT id, reference, user_id, origin, locator, hotel_name, room_type_name,
                      check_in, check_out, guests, total_price, created_at
               FROM bookings
               WHERE user_id = ?
               ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	bookings := make([]model.Booking, 0)
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(&b.ID, &b.Reference, &b.UserID, &b.Origin, &b.Locator,
			&b.HotelName, &b.RoomTypeName, &b.CheckIn, &b.CheckOut,
			&b.Guests, &b.TotalPrice, &b.CreatedAt); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}

// GetByLocator returns the booking recorded under an upstream locator,
// regardless of owner.  Ownership is checked by the caller only after
// existence is confirmed, so a request for someone else's locator yields
// 403 rather than leaking existence through a 404.  Returns sql.ErrNoRows
// when the locator is unknown.
func (r *BookingRepo) GetByLocator(ctx context.Context, locator string) (*model.Booking, error) {
	const q = `SELECT id, reference, user_id, origin, locator, hotel_name, room_type_name,
                      check_in, check_out, guests, total_price, payload, created_at
               FROM bookings
               WHERE locator = ?
               LIMIT 1`
	var b model.Booking
	err := r.db.QueryRowContext(ctx, q, locator).Scan(
		&b.ID, &b.Reference, &b.UserID, &b.Origin, &b.Locator,
		&b.HotelName, &b.RoomTypeName, &b.CheckIn, &b.CheckOut,
		&b.Guests, &b.TotalPrice, &b.Payload, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
