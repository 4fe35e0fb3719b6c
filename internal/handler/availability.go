package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iberstay/hotel-distribution/internal/availability"
	"github.com/iberstay/hotel-distribution/internal/repository"
)

// AvailabilityHandler exposes the inventory availability engine directly,
// without going through the provider layer.  Callers query by date range
// plus a hotel, city or country filter.
type AvailabilityHandler struct {
	Engine *availability.Engine
}

func NewAvailabilityHandler(engine *availability.Engine) *AvailabilityHandler {
	return &AvailabilityHandler{Engine: engine}
}

// Get handles GET /v1/availability.  Required: check_in, check_out and at
// least one of hotel_id, hotel, city, country.  Optional guests narrows
// results to room types that can sleep the party.
func (h *AvailabilityHandler) Get(c echo.Context) error {
	checkIn, checkOut, err := parseStayRange(c.QueryParam("check_in"), c.QueryParam("check_out"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	f := repository.HotelFilter{
		HotelName: strings.TrimSpace(c.QueryParam("hotel")),
		City:      strings.TrimSpace(c.QueryParam("city")),
		Country:   strings.TrimSpace(c.QueryParam("country")),
	}
	if idStr := strings.TrimSpace(c.QueryParam("hotel_id")); idStr != "" {
		id, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil || id == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "hotel_id must be a positive integer"})
		}
		f.HotelID = id
	}
	guests, _ := strconv.Atoi(c.QueryParam("guests"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hotels, err := h.Engine.Compute(ctx, f, checkIn, checkOut)
	if err != nil {
		switch err {
		case availability.ErrInvalidRange, availability.ErrMissingFilter:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		case availability.ErrHotelNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "availability query failed"})
	}

	if guests > 0 {
		for i := range hotels {
			kept := hotels[i].RoomTypes[:0]
			for _, t := range hotels[i].RoomTypes {
				if t.Capacity >= guests {
					kept = append(kept, t)
				}
			}
			hotels[i].RoomTypes = kept
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"check_in":  checkIn.Format(dateLayout),
		"check_out": checkOut.Format(dateLayout),
		"hotels":    hotels,
	})
}
