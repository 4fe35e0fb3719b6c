package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iberstay/hotel-distribution/internal/model"
)

// InventoryRepo provides read access to the static hotel inventory: hotels,
// room types, physical rooms, nightly tariffs and meal-plan (regimen) rates.
// It backs the availability engine and the inventory-owning provider
// adapter.  All methods are pure reads; writes to the inventory happen only
// through catalog administration, which is out of scope here.
type InventoryRepo struct {
	db *sql.DB
}

// NewInventoryRepo returns a new InventoryRepo bound to the given database.
func NewInventoryRepo(db *sql.DB) *InventoryRepo { return &InventoryRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions that
// span this repository and ReservationRepo.
func (r *InventoryRepo) DB() *sql.DB { return r.db }

// HotelFilter narrows the candidate hotel set for an availability query.
// Exactly one of HotelID / HotelName / (City and/or Country) is expected;
// the engine validates that before calling.
type HotelFilter struct {
	HotelID   uint64
	HotelName string
	City      string
	Country   string
}

// Empty reports whether no filter criterion was supplied.
func (f HotelFilter) Empty() bool {
	return f.HotelID == 0 && strings.TrimSpace(f.HotelName) == "" &&
		strings.TrimSpace(f.City) == "" && strings.TrimSpace(f.Country) == ""
}

// RoomTypeCount carries one room type of a hotel together with how many
// physical rooms of that type the hotel owns.
type RoomTypeCount struct {
	RoomType model.RoomType
	Total    int
}

// HotelsByFilter resolves the candidate hotel set for an availability query.
// A hotel id resolves exactly; a hotel name resolves to the first
// case-insensitive substring match; city and country filter with substring
// matches against the cities table.  The result is ordered by hotel id for
// deterministic output.
func (r *InventoryRepo) HotelsByFilter(ctx context.Context, f HotelFilter) ([]model.Hotel, error) {
	const base = `SELECT h.id, h.name, h.address, h.stars, c.name, c.country
                  FROM hotels h
                  JOIN cities c ON c.id = h.city_id`
	var (
		where []string
		args  []interface{}
	)
	switch {
	case f.HotelID != 0:
		where = append(where, "h.id = ?")
		args = append(args, f.HotelID)
	case strings.TrimSpace(f.HotelName) != "":
		where = append(where, "h.name LIKE ?")
		args = append(args, "%"+strings.TrimSpace(f.HotelName)+"%")
	default:
		if city := strings.TrimSpace(f.City); city != "" {
			where = append(where, "c.name LIKE ?")
			args = append(args, "%"+city+"%")
		}
		if country := strings.TrimSpace(f.Country); country != "" {
			where = append(where, "c.country LIKE ?")
			args = append(args, "%"+country+"%")
		}
	}
	q := base
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY h.id"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	hotels := make([]model.Hotel, 0)
	for rows.Next() {
		var h model.Hotel
		if err := rows.Scan(&h.ID, &h.Name, &h.Address, &h.Stars, &h.City, &h.Country); err != nil {
			return nil, err
		}
		hotels = append(hotels, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return hotels, nil
}

// RoomCountsByType groups a hotel's rooms by room type and returns the total
// capacity per type.  Types with zero rooms do not appear (the join is
// inner), which matches the rule that only physically present types can be
// offered.
func (r *InventoryRepo) RoomCountsByType(ctx context.Context, hotelID uint64) ([]RoomTypeCount, error) {
	const q = `SELECT rt.id, rt.hotel_id, rt.category, rt.single_beds, rt.double_beds,
                      COUNT(rm.id)
               FROM room_types rt
               JOIN rooms rm ON rm.room_type_id = rt.id
               WHERE rt.hotel_id = ?
               GROUP BY rt.id, rt.hotel_id, rt.category, rt.single_beds, rt.double_beds
               ORDER BY rt.id`
	rows, err := r.db.QueryContext(ctx, q, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make([]RoomTypeCount, 0)
	for rows.Next() {
		var c RoomTypeCount
		if err := rows.Scan(&c.RoomType.ID, &c.RoomType.HotelID, &c.RoomType.Category,
			&c.RoomType.SingleBeds, &c.RoomType.DoubleBeds, &c.Total); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

// OverlapCounts tallies, per room type of the given hotel, how many ACTIVE
// reservations overlap the half-open range [checkIn, checkOut).  A
// reservation overlaps when check_in < checkOut AND check_out > checkIn;
// adjacent stays sharing a boundary date do not overlap.  The room type of a
// reservation is taken through its stay nights, which are uniform per
// reservation by invariant.
func (r *InventoryRepo) OverlapCounts(ctx context.Context, hotelID uint64, checkIn, checkOut time.Time) (map[uint64]int, error) {
	const q = `SELECT sn.room_type_id, COUNT(DISTINCT res.id)
               FROM reservations res
               JOIN stay_nights sn ON sn.reservation_id = res.id
               JOIN room_types rt ON rt.id = sn.room_type_id
               WHERE rt.hotel_id = ?
                 AND res.status = ?
                 AND res.check_in < ?
                 AND res.check_out > ?
               GROUP BY sn.room_type_id`
	rows, err := r.db.QueryContext(ctx, q, hotelID, model.ReservationActive, checkOut, checkIn)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make(map[uint64]int)
	for rows.Next() {
		var typeID uint64
		var n int
		if err := rows.Scan(&typeID, &n); err != nil {
			return nil, err
		}
		counts[typeID] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

// NightlyRates returns the per-night room tariff for each room type of a
// hotel, keyed by room type id.  Types without a tariff row are simply
// absent; the engine reports a zero rate for them.
func (r *InventoryRepo) NightlyRates(ctx context.Context, hotelID uint64) (map[uint64]float64, error) {
	const q = `SELECT t.room_type_id, t.nightly_price
               FROM hotel_tariffs t
               WHERE t.hotel_id = ?`
	rows, err := r.db.QueryContext(ctx, q, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	rates := make(map[uint64]float64)
	for rows.Next() {
		var typeID uint64
		var price float64
		if err := rows.Scan(&typeID, &price); err != nil {
			return nil, err
		}
		rates[typeID] = price
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rates, nil
}

// RoomTypeByCategory resolves a room type by case-insensitive substring
// match on its category within one hotel, the way offers reference types by
// display name.  Returns ErrRoomTypeNotFound when nothing matches.
func (r *InventoryRepo) RoomTypeByCategory(ctx context.Context, hotelID uint64, category string) (model.RoomType, error) {
	const q = `SELECT id, hotel_id, category, single_beds, double_beds
               FROM room_types
               WHERE hotel_id = ? AND category LIKE ?
               ORDER BY id LIMIT 1`
	var t model.RoomType
	err := r.db.QueryRowContext(ctx, q, hotelID, "%"+strings.TrimSpace(category)+"%").
		Scan(&t.ID, &t.HotelID, &t.Category, &t.SingleBeds, &t.DoubleBeds)
	if err == sql.ErrNoRows {
		return model.RoomType{}, ErrRoomTypeNotFound
	}
	if err != nil {
		return model.RoomType{}, err
	}
	return t, nil
}

// RegimenRate resolves the price row for a meal-plan code offered by a
// hotel.  Returns the regimen rate id and its per-night price, or
// ErrRegimenNotFound when the hotel does not offer the code.
func (r *InventoryRepo) RegimenRate(ctx context.Context, hotelID uint64, code string) (uint64, float64, error) {
	const q = `SELECT rr.id, rr.nightly_price
               FROM regimen_rates rr
               JOIN regimens rg ON rg.id = rr.regimen_id
               WHERE rr.hotel_id = ? AND rg.code = ?
               LIMIT 1`
	var (
		id    uint64
		price float64
	)
	err := r.db.QueryRowContext(ctx, q, hotelID, strings.TrimSpace(code)).Scan(&id, &price)
	if err == sql.ErrNoRows {
		return 0, 0, ErrRegimenNotFound
	}
	if err != nil {
		return 0, 0, err
	}
	return id, price, nil
}
