package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iberstay/hotel-distribution/internal/model"
	"github.com/iberstay/hotel-distribution/internal/repository"
)

// staying places one reservation on a room type of a hotel.
type staying struct {
	roomTypeID uint64
	res        model.Reservation
}

// fakeStore is an in-memory Store with fixed inventory per hotel.  Overlap
// counts are derived from the reservation fixtures the same way the SQL
// does, so boundary dates and statuses are exercised for real.
type fakeStore struct {
	hotels []model.Hotel
	counts map[uint64][]repository.RoomTypeCount
	stays  map[uint64][]staying
	rates  map[uint64]map[uint64]float64
}

func (s *fakeStore) HotelsByFilter(_ context.Context, f repository.HotelFilter) ([]model.Hotel, error) {
	out := []model.Hotel{}
	for _, h := range s.hotels {
		switch {
		case f.HotelID != 0 && h.ID == f.HotelID:
			out = append(out, h)
		case f.HotelName != "" && h.Name == f.HotelName:
			out = append(out, h)
		case f.HotelID == 0 && f.HotelName == "" && (f.City == h.City || f.Country == h.Country):
			out = append(out, h)
		}
	}
	return out, nil
}

func (s *fakeStore) RoomCountsByType(_ context.Context, hotelID uint64) ([]repository.RoomTypeCount, error) {
	return s.counts[hotelID], nil
}

func (s *fakeStore) OverlapCounts(_ context.Context, hotelID uint64, checkIn, checkOut time.Time) (map[uint64]int, error) {
	out := map[uint64]int{}
	for _, st := range s.stays[hotelID] {
		if st.res.OverlapsStay(checkIn, checkOut) {
			out[st.roomTypeID]++
		}
	}
	return out, nil
}

func (s *fakeStore) NightlyRates(_ context.Context, hotelID uint64) (map[uint64]float64, error) {
	return s.rates[hotelID], nil
}

func day(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func stay(typeID uint64, status, ci, co string) staying {
	return staying{
		roomTypeID: typeID,
		res:        model.Reservation{Status: status, CheckIn: day(ci), CheckOut: day(co)},
	}
}

func madridStore() *fakeStore {
	return &fakeStore{
		hotels: []model.Hotel{
			{ID: 1, Name: "Gran Via Palace", City: "Madrid", Country: "Spain"},
		},
		counts: map[uint64][]repository.RoomTypeCount{
			1: {
				{RoomType: model.RoomType{ID: 10, HotelID: 1, Category: "Double", DoubleBeds: 1}, Total: 5},
				{RoomType: model.RoomType{ID: 11, HotelID: 1, Category: "Suite", DoubleBeds: 2}, Total: 2},
			},
		},
		stays: map[uint64][]staying{
			1: {
				stay(10, model.ReservationActive, "2026-07-09", "2026-07-11"),
				stay(10, model.ReservationActive, "2026-07-11", "2026-07-14"),
				stay(11, model.ReservationActive, "2026-07-10", "2026-07-12"),
				stay(11, model.ReservationActive, "2026-07-08", "2026-07-20"),
			},
		},
		rates: map[uint64]map[uint64]float64{
			1: {10: 80, 11: 150},
		},
	}
}

func TestComputeSubtractsOverlappingReservations(t *testing.T) {
	e := NewEngine(madridStore())

	hotels, err := e.Compute(context.Background(), repository.HotelFilter{City: "Madrid"},
		day("2026-07-10"), day("2026-07-12"))
	require.NoError(t, err)
	require.Len(t, hotels, 1)

	// 5 doubles minus 2 overlapping reservations leaves 3; the fully
	// occupied suite type is not offered at all.
	require.Len(t, hotels[0].RoomTypes, 1)
	d := hotels[0].RoomTypes[0]
	assert.Equal(t, uint64(10), d.RoomTypeID)
	assert.Equal(t, 3, d.Available)
	assert.Equal(t, 5, d.Total)
	assert.Equal(t, 2, d.Occupied)
	assert.Equal(t, 80.0, d.NightlyRate)
	assert.Equal(t, 2, d.Capacity)
}

func TestComputeIgnoresAdjacentAndCancelledStays(t *testing.T) {
	s := madridStore()
	s.stays[1] = []staying{
		// Departs on the queried check-in day, so the room turns over
		// and stays sellable.
		stay(10, model.ReservationActive, "2026-07-05", "2026-07-10"),
		// Arrives on the queried check-out day.
		stay(10, model.ReservationActive, "2026-07-12", "2026-07-15"),
		stay(10, model.ReservationCancelled, "2026-07-10", "2026-07-12"),
		stay(10, model.ReservationCompleted, "2026-07-10", "2026-07-12"),
		stay(10, model.ReservationActive, "2026-07-11", "2026-07-12"),
	}

	e := NewEngine(s)
	hotels, err := e.Compute(context.Background(), repository.HotelFilter{City: "Madrid"},
		day("2026-07-10"), day("2026-07-12"))
	require.NoError(t, err)
	require.Len(t, hotels, 1)

	var d *RoomTypeAvailability
	for i := range hotels[0].RoomTypes {
		if hotels[0].RoomTypes[i].RoomTypeID == 10 {
			d = &hotels[0].RoomTypes[i]
		}
	}
	require.NotNil(t, d)
	assert.Equal(t, 1, d.Occupied)
	assert.Equal(t, 4, d.Available)
}

func TestComputeInvalidRange(t *testing.T) {
	e := NewEngine(madridStore())

	_, err := e.Compute(context.Background(), repository.HotelFilter{City: "Madrid"},
		day("2026-07-12"), day("2026-07-10"))
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = e.Compute(context.Background(), repository.HotelFilter{City: "Madrid"},
		day("2026-07-10"), day("2026-07-10"))
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestComputeMissingFilter(t *testing.T) {
	e := NewEngine(madridStore())

	_, err := e.Compute(context.Background(), repository.HotelFilter{},
		day("2026-07-10"), day("2026-07-12"))
	assert.ErrorIs(t, err, ErrMissingFilter)
}

func TestComputeHotelSpecificNotFound(t *testing.T) {
	e := NewEngine(madridStore())

	_, err := e.Compute(context.Background(), repository.HotelFilter{HotelName: "No Such Hotel"},
		day("2026-07-10"), day("2026-07-12"))
	assert.ErrorIs(t, err, ErrHotelNotFound)
}

func TestComputeCityMatchingNothingIsEmptyNotError(t *testing.T) {
	e := NewEngine(madridStore())

	hotels, err := e.Compute(context.Background(), repository.HotelFilter{City: "Lisbon"},
		day("2026-07-10"), day("2026-07-12"))
	require.NoError(t, err)
	assert.Empty(t, hotels)
}

func TestComputeOmitsFullyBookedHotelFromCityResults(t *testing.T) {
	s := madridStore()
	s.hotels = append(s.hotels, model.Hotel{ID: 2, Name: "Plaza Mayor Inn", City: "Madrid", Country: "Spain"})
	s.counts[2] = []repository.RoomTypeCount{
		{RoomType: model.RoomType{ID: 20, HotelID: 2, Category: "Single", SingleBeds: 1}, Total: 1},
	}
	s.stays[2] = []staying{stay(20, model.ReservationActive, "2026-07-05", "2026-07-15")}
	s.rates[2] = map[uint64]float64{20: 50}

	e := NewEngine(s)
	hotels, err := e.Compute(context.Background(), repository.HotelFilter{City: "Madrid"},
		day("2026-07-10"), day("2026-07-12"))
	require.NoError(t, err)

	require.Len(t, hotels, 1)
	assert.Equal(t, uint64(1), hotels[0].Hotel.ID)
}

func TestComputeHotelSpecificKeepsHotelEvenWhenFull(t *testing.T) {
	s := madridStore()
	s.stays[1] = nil
	for i := 0; i < 5; i++ {
		s.stays[1] = append(s.stays[1], stay(10, model.ReservationActive, "2026-07-01", "2026-07-20"))
	}
	s.stays[1] = append(s.stays[1],
		stay(11, model.ReservationActive, "2026-07-01", "2026-07-20"),
		stay(11, model.ReservationActive, "2026-07-01", "2026-07-20"))

	e := NewEngine(s)
	hotels, err := e.Compute(context.Background(), repository.HotelFilter{HotelName: "Gran Via Palace"},
		day("2026-07-10"), day("2026-07-12"))
	require.NoError(t, err)

	// A direct hotel query answers with the hotel and an empty type list
	// rather than pretending the hotel does not exist.
	require.Len(t, hotels, 1)
	assert.Empty(t, hotels[0].RoomTypes)
}
