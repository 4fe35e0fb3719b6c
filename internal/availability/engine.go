// Package availability computes, for a stay range, how many rooms of each
// type remain free in the inventory-owning store by reconciling total room
// counts against overlapping active reservations.  The computation is a
// pure read; every mutation of the counted state happens elsewhere.
package availability

import (
	"context"
	"errors"
	"time"

	"github.com/iberstay/hotel-distribution/internal/model"
	"github.com/iberstay/hotel-distribution/internal/repository"
)

// ErrInvalidRange is returned when checkOut is not strictly after checkIn.
var ErrInvalidRange = errors.New("check-out must be after check-in")

// ErrMissingFilter is returned when neither a hotel identifier/name nor a
// city/country filter is supplied.
var ErrMissingFilter = errors.New("a hotel, city or country filter is required")

// ErrHotelNotFound is returned when a hotel-specific filter matches no
// hotel.  City/country queries matching nothing return an empty result
// instead.
var ErrHotelNotFound = repository.ErrHotelNotFound

// Store is the slice of the inventory repository the engine reads from.
// Declaring it here lets tests substitute an in-memory fake.
type Store interface {
	HotelsByFilter(ctx context.Context, f repository.HotelFilter) ([]model.Hotel, error)
	RoomCountsByType(ctx context.Context, hotelID uint64) ([]repository.RoomTypeCount, error)
	OverlapCounts(ctx context.Context, hotelID uint64, checkIn, checkOut time.Time) (map[uint64]int, error)
	NightlyRates(ctx context.Context, hotelID uint64) (map[uint64]float64, error)
}

// RoomTypeAvailability reports one room type with at least one free unit
// for the queried range.  Total and Occupied are included for diagnostics.
type RoomTypeAvailability struct {
	RoomTypeID  uint64  `json:"room_type_id"`
	Category    string  `json:"category"`
	SingleBeds  uint8   `json:"single_beds"`
	DoubleBeds  uint8   `json:"double_beds"`
	Capacity    int     `json:"capacity"`
	NightlyRate float64 `json:"nightly_rate"`
	Available   int     `json:"available"`
	Total       int     `json:"total_rooms"`
	Occupied    int     `json:"occupied"`
}

// HotelAvailability groups the qualifying room types of one hotel.
type HotelAvailability struct {
	Hotel     model.Hotel            `json:"hotel"`
	RoomTypes []RoomTypeAvailability `json:"room_types"`
}

// Engine performs the availability computation against a Store.
type Engine struct {
	store Store
}

// NewEngine returns an Engine reading from the given store.
func NewEngine(store Store) *Engine { return &Engine{store: store} }

// Compute resolves the candidate hotel set for the filter and, per hotel
// and room type, subtracts the count of active reservations overlapping the
// half-open range [checkIn, checkOut) from the total room count.  Room
// types are reported only when more rooms exist than overlapping
// reservations; hotels with no qualifying type are omitted entirely from
// multi-hotel results.  Hotel-specific filters that match nothing yield
// ErrHotelNotFound; city/country filters that match nothing yield an empty
// but successful result.
func (e *Engine) Compute(ctx context.Context, f repository.HotelFilter, checkIn, checkOut time.Time) ([]HotelAvailability, error) {
	if !checkOut.After(checkIn) {
		return nil, ErrInvalidRange
	}
	if f.Empty() {
		return nil, ErrMissingFilter
	}

	hotels, err := e.store.HotelsByFilter(ctx, f)
	if err != nil {
		return nil, err
	}
	hotelSpecific := f.HotelID != 0 || f.HotelName != ""
	if len(hotels) == 0 {
		if hotelSpecific {
			return nil, ErrHotelNotFound
		}
		return []HotelAvailability{}, nil
	}
	if hotelSpecific && len(hotels) > 1 {
		// Name filters are substring matches; the first hit wins, like the
		// exact-id path.
		hotels = hotels[:1]
	}

	out := make([]HotelAvailability, 0, len(hotels))
	for _, h := range hotels {
		types, err := e.hotelAvailability(ctx, h.ID, checkIn, checkOut)
		if err != nil {
			return nil, err
		}
		if len(types) == 0 && !hotelSpecific {
			continue
		}
		out = append(out, HotelAvailability{Hotel: h, RoomTypes: types})
	}
	return out, nil
}

func (e *Engine) hotelAvailability(ctx context.Context, hotelID uint64, checkIn, checkOut time.Time) ([]RoomTypeAvailability, error) {
	counts, err := e.store.RoomCountsByType(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	overlaps, err := e.store.OverlapCounts(ctx, hotelID, checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	rates, err := e.store.NightlyRates(ctx, hotelID)
	if err != nil {
		return nil, err
	}

	types := make([]RoomTypeAvailability, 0, len(counts))
	for _, c := range counts {
		occupied := overlaps[c.RoomType.ID]
		free := c.Total - occupied
		if free <= 0 {
			// Published availability never goes negative; fully occupied
			// types are simply not offered.
			continue
		}
		types = append(types, RoomTypeAvailability{
			RoomTypeID:  c.RoomType.ID,
			Category:    c.RoomType.Category,
			SingleBeds:  c.RoomType.SingleBeds,
			DoubleBeds:  c.RoomType.DoubleBeds,
			Capacity:    c.RoomType.Capacity(),
			NightlyRate: rates[c.RoomType.ID],
			Available:   free,
			Total:       c.Total,
			Occupied:    occupied,
		})
	}
	return types, nil
}
