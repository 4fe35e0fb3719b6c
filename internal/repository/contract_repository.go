package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iberstay/hotel-distribution/internal/model"
)

// ContractRepo manages check-in assignments.  A contract binds one
// reservation to one physical room for the duration of the stay.  The
// invariants enforced here: at most one contract per reservation, and a
// room holds at most one open contract (check_in_at set, check_out_at null)
// at any time.
type ContractRepo struct {
	db *sql.DB
}

// NewContractRepo returns a new ContractRepo bound to the given database.
func NewContractRepo(db *sql.DB) *ContractRepo { return &ContractRepo{db: db} }

// CheckIn assigns a free room of the reserved type to the reservation and
// stamps the check-in time.  It runs in one transaction: confirms the
// reservation is ACTIVE and not yet checked in, picks the lowest-numbered
// room of the type without an open contract (locked FOR UPDATE so two
// concurrent check-ins cannot grab the same room), then inserts the
// contract.  Returns ErrConflict on double check-in or a non-active
// reservation, ErrNoAvailability when every room of the type is occupied,
// and sql.ErrNoRows when the reservation does not exist.
func (r *ContractRepo) CheckIn(ctx context.Context, reservationID uint64) (*model.Contract, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var (
		status     string
		hotelID    uint64
		roomTypeID uint64
		existing   sql.NullInt64
	)
	err = tx.QueryRowContext(ctx,
		`SELECT res.status, rt.hotel_id, rt.id, c.id
         FROM reservations res
         JOIN stay_nights sn ON sn.reservation_id = res.id
         JOIN room_types rt ON rt.id = sn.room_type_id
         LEFT JOIN contracts c ON c.reservation_id = res.id
         WHERE res.id = ?
         LIMIT 1`, reservationID).Scan(&status, &hotelID, &roomTypeID, &existing)
	if err != nil {
		return nil, err
	}
	if status != model.ReservationActive || existing.Valid {
		return nil, ErrConflict
	}

	// Lowest-numbered room of the type without an open contract.
	var (
		roomID     uint64
		roomNumber string
	)
	err = tx.QueryRowContext(ctx,
		`SELECT rm.id, rm.number
         FROM rooms rm
         WHERE rm.hotel_id = ? AND rm.room_type_id = ?
           AND NOT EXISTS (
               SELECT 1 FROM contracts c
               WHERE c.room_id = rm.id AND c.check_in_at IS NOT NULL AND c.check_out_at IS NULL
           )
         ORDER BY rm.number
         LIMIT 1
         FOR UPDATE`, hotelID, roomTypeID).Scan(&roomID, &roomNumber)
	if err == sql.ErrNoRows {
		return nil, ErrNoAvailability
	}
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO contracts (reservation_id, room_id, check_in_at) VALUES (?,?,?)`,
		reservationID, roomID, now)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return &model.Contract{
		ID:            uint64(id),
		ReservationID: reservationID,
		RoomID:        roomID,
		RoomNumber:    roomNumber,
		CheckInAt:     &now,
	}, nil
}

// CheckOut stamps the check-out time on a contract.  Returns ErrConflict
// when the contract was already checked out or never checked in, and
// sql.ErrNoRows when the contract does not exist.
func (r *ContractRepo) CheckOut(ctx context.Context, contractID uint64) (*model.Contract, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var c model.Contract
	var checkIn, checkOut sql.NullTime
	err = tx.QueryRowContext(ctx,
		`SELECT ct.id, ct.reservation_id, ct.room_id, rm.number, ct.check_in_at, ct.check_out_at
         FROM contracts ct
         JOIN rooms rm ON rm.id = ct.room_id
         WHERE ct.id = ?`, contractID).Scan(
		&c.ID, &c.ReservationID, &c.RoomID, &c.RoomNumber, &checkIn, &checkOut)
	if err != nil {
		return nil, err
	}
	if !checkIn.Valid || checkOut.Valid {
		return nil, ErrConflict
	}

	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx,
		`UPDATE contracts SET check_out_at = ? WHERE id = ?`, now, contractID); err != nil {
		return nil, err
	}
	// The stay is over; the reservation no longer counts against forward
	// availability regardless, but the status transition keeps reads honest.
	if _, err := tx.ExecContext(ctx,
		`UPDATE reservations SET status = ? WHERE id = ? AND status = ?`,
		model.ReservationCompleted, c.ReservationID, model.ReservationActive); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	in := checkIn.Time
	c.CheckInAt = &in
	c.CheckOutAt = &now
	return &c, nil
}
