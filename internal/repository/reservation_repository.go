package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iberstay/hotel-distribution/internal/model"
)

// ReservationRepo provides CRUD operations for inventory reservations and
// their stay nights.  A reservation groups one stay night per date in the
// half-open range [check_in, check_out), all sharing the same room type.
// All date fields are stored in UTC.  Writes run inside caller-provided
// transactions so the capacity re-check and the insert are atomic.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle for opening booking transactions.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

// FindOrCreateGuestTx resolves the paying guest for a new reservation.  It
// looks up by national id first, then by e-mail, and inserts a new guest row
// when neither matches.  The guest id is populated on the passed record.
func (r *ReservationRepo) FindOrCreateGuestTx(ctx context.Context, tx *sql.Tx, g *model.Guest) error {
	g.Email = strings.ToLower(strings.TrimSpace(g.Email))
	g.NationalID = strings.ToUpper(strings.TrimSpace(g.NationalID))

	lookups := []struct {
		q   string
		arg string
	}{
		{"SELECT id FROM guests WHERE national_id = ? LIMIT 1", g.NationalID},
		{"SELECT id FROM guests WHERE email = ? LIMIT 1", g.Email},
	}
	for _, l := range lookups {
		if l.arg == "" {
			continue
		}
		err := tx.QueryRowContext(ctx, l.q, l.arg).Scan(&g.ID)
		if err == nil {
			return nil
		}
		if err != sql.ErrNoRows {
			return err
		}
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO guests (first_name, last_name, email, national_id, birth_date) VALUES (?,?,?,?,?)`,
		g.FirstName, g.LastName, g.Email, g.NationalID, g.BirthDate)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	g.ID = uint64(id)
	return nil
}

// CapacityCheckTx re-validates availability inside the booking transaction.
// It locks the hotel's room rows for the requested type (FOR UPDATE) so two
// concurrent bookings for the last unit serialize on the same rows, then
// tallies ACTIVE reservations overlapping [checkIn, checkOut) for that type.
// Returns ErrNoAvailability when the overlap count has reached the room
// total, and ErrRoomTypeNotFound when the hotel has no rooms of the type.
func (r *ReservationRepo) CapacityCheckTx(ctx context.Context, tx *sql.Tx, hotelID, roomTypeID uint64, checkIn, checkOut time.Time) error {
	var total int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM rooms WHERE hotel_id = ? AND room_type_id = ? FOR UPDATE`,
		hotelID, roomTypeID).Scan(&total)
	if err != nil {
		return err
	}
	if total == 0 {
		return ErrRoomTypeNotFound
	}

	var occupied int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT res.id)
         FROM reservations res
         JOIN stay_nights sn ON sn.reservation_id = res.id
         WHERE sn.room_type_id = ?
           AND res.status = ?
           AND res.check_in < ?
           AND res.check_out > ?`,
		roomTypeID, model.ReservationActive, checkOut, checkIn).Scan(&occupied)
	if err != nil {
		return err
	}
	if occupied >= total {
		return ErrNoAvailability
	}
	return nil
}

// CreateTx inserts a new reservation and its stay nights within the scope
// of an existing transaction.  One stay night row is created per date in
// [CheckIn, CheckOut), all with the same room type, which keeps the
// uniform-type invariant enforced at the only write site.  The generated id
// is populated on the provided record.  The caller must commit or rollback.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation, roomTypeID uint64) error {
	result, err := tx.ExecContext(ctx,
		`INSERT INTO reservations (guest_id, regimen_rate_id, check_in, check_out, channel, status)
         VALUES (?,?,?,?,?,?)`,
		res.GuestID, res.RegimenRateID, res.CheckIn, res.CheckOut, res.Channel, model.ReservationActive)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	res.Status = model.ReservationActive

	nights := model.StayDates(res.CheckIn, res.CheckOut)
	if len(nights) == 0 {
		return ErrConflict
	}
	query := `INSERT INTO stay_nights (reservation_id, room_type_id, night) VALUES `
	args := make([]interface{}, 0, len(nights)*3)
	for i, n := range nights {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, res.ID, roomTypeID, n)
	}
	_, err = tx.ExecContext(ctx, query, args...)
	return err
}

// ReservationDetail carries a reservation together with the hotel and room
// type resolved through its first stay night, for display and for the
// check-in flow.
type ReservationDetail struct {
	Reservation model.Reservation
	HotelID     uint64
	HotelName   string
	RoomTypeID  uint64
	Category    string
	Nights      int
}

// GetByID loads a reservation and its hotel/room-type context.  Returns
// sql.ErrNoRows when no reservation with the id exists.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*ReservationDetail, error) {
	const q = `SELECT res.id, res.guest_id, res.regimen_rate_id, res.check_in, res.check_out,
                      res.channel, res.status, res.created_at,
                      rt.id, rt.category, h.id, h.name,
                      (SELECT COUNT(*) FROM stay_nights WHERE reservation_id = res.id)
               FROM reservations res
               JOIN stay_nights sn ON sn.reservation_id = res.id
               JOIN room_types rt ON rt.id = sn.room_type_id
               JOIN hotels h ON h.id = rt.hotel_id
               WHERE res.id = ?
               LIMIT 1`
	var d ReservationDetail
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&d.Reservation.ID, &d.Reservation.GuestID, &d.Reservation.RegimenRateID,
		&d.Reservation.CheckIn, &d.Reservation.CheckOut,
		&d.Reservation.Channel, &d.Reservation.Status, &d.Reservation.CreatedAt,
		&d.RoomTypeID, &d.Category, &d.HotelID, &d.HotelName, &d.Nights,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Cancel flips a reservation to CANCELLED.  It refuses to cancel twice and
// refuses to cancel once a check-in contract exists, returning ErrConflict
// in both cases and sql.ErrNoRows when the reservation does not exist.
// Cancelled reservations stop counting against availability immediately.
func (r *ReservationRepo) Cancel(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var status string
	var checkedIn sql.NullTime
	err = tx.QueryRowContext(ctx,
		`SELECT res.status, c.check_in_at
         FROM reservations res
         LEFT JOIN contracts c ON c.reservation_id = res.id
         WHERE res.id = ?`, id).Scan(&status, &checkedIn)
	if err != nil {
		return err
	}
	if status != model.ReservationActive {
		return ErrConflict
	}
	if checkedIn.Valid {
		return ErrConflict
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE reservations SET status = ? WHERE id = ?`,
		model.ReservationCancelled, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
