package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iberstay/hotel-distribution/internal/availability"
	"github.com/iberstay/hotel-distribution/internal/model"
	"github.com/iberstay/hotel-distribution/internal/repository"
)

// singleHotelStore serves one hotel with a double and a family room.
type singleHotelStore struct{}

func (singleHotelStore) HotelsByFilter(_ context.Context, f repository.HotelFilter) ([]model.Hotel, error) {
	if f.City == "Madrid" || f.HotelName == "Gran Via Palace" || f.HotelID == 1 {
		return []model.Hotel{{ID: 1, Name: "Gran Via Palace", City: "Madrid", Country: "Spain"}}, nil
	}
	return nil, nil
}

func (singleHotelStore) RoomCountsByType(context.Context, uint64) ([]repository.RoomTypeCount, error) {
	return []repository.RoomTypeCount{
		{RoomType: model.RoomType{ID: 10, Category: "Double", DoubleBeds: 1}, Total: 5},
		{RoomType: model.RoomType{ID: 11, Category: "Family", DoubleBeds: 2}, Total: 2},
	}, nil
}

func (singleHotelStore) OverlapCounts(context.Context, uint64, time.Time, time.Time) (map[uint64]int, error) {
	return map[uint64]int{10: 2}, nil
}

func (singleHotelStore) NightlyRates(context.Context, uint64) (map[uint64]float64, error) {
	return map[uint64]float64{10: 80, 11: 140}, nil
}

func doAvailability(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	h := NewAvailabilityHandler(availability.NewEngine(singleHotelStore{}))
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Get(e.NewContext(req, rec)))
	return rec
}

func TestAvailabilityValidatesParams(t *testing.T) {
	rec := doAvailability(t, "/v1/availability?check_in=2026-07-10&city=Madrid")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doAvailability(t, "/v1/availability?check_in=2026-07-10&check_out=2026-07-12&hotel_id=abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// no location filter at all
	rec = doAvailability(t, "/v1/availability?check_in=2026-07-10&check_out=2026-07-12")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAvailabilityUnknownHotelIs404(t *testing.T) {
	rec := doAvailability(t, "/v1/availability?check_in=2026-07-10&check_out=2026-07-12&hotel=Nowhere+Inn")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAvailabilityGuestsFilterDropsSmallRooms(t *testing.T) {
	rec := doAvailability(t, "/v1/availability?check_in=2026-07-10&check_out=2026-07-12&city=Madrid&guests=4")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Hotels []availability.HotelAvailability `json:"hotels"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Hotels, 1)
	require.Len(t, body.Hotels[0].RoomTypes, 1)
	// the double sleeps two; only the family room fits four guests
	assert.Equal(t, "Family", body.Hotels[0].RoomTypes[0].Category)
}

func TestAvailabilityReportsFreeRooms(t *testing.T) {
	rec := doAvailability(t, "/v1/availability?check_in=2026-07-10&check_out=2026-07-12&city=Madrid")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Hotels []availability.HotelAvailability `json:"hotels"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Hotels, 1)
	require.Len(t, body.Hotels[0].RoomTypes, 2)
	assert.Equal(t, 3, body.Hotels[0].RoomTypes[0].Available)
}
