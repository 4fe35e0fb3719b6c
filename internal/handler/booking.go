package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iberstay/hotel-distribution/internal/distribution"
	"github.com/iberstay/hotel-distribution/internal/provider"
	"github.com/iberstay/hotel-distribution/internal/repository"
)

// BookingHandler serves the unified booking surface: create a booking at a
// chosen provider and read back the caller's local records.
type BookingHandler struct {
	Coordinator *distribution.Coordinator
}

func NewBookingHandler(coord *distribution.Coordinator) *BookingHandler {
	return &BookingHandler{Coordinator: coord}
}

// bookReq is the flat wire form of a booking.  Which fields are required
// depends on origin: the inventory provider books by display names plus a
// meal-plan code, the channel by the numeric ids it issued in its offers.
type bookReq struct {
	Origin       string  `json:"origin"`
	CheckIn      string  `json:"check_in"`
	CheckOut     string  `json:"check_out"`
	Guests       int     `json:"guests"`
	HotelName    string  `json:"hotel_name"`
	RoomTypeName string  `json:"room_type_name"`
	RegimenCode  string  `json:"regimen_code"`
	HotelID      uint64  `json:"hotel_id"`
	RoomTypeID   uint64  `json:"room_type_id"`
	TotalPrice   float64 `json:"total_price"`
}

// Post handles POST /v1/bookings.
func (h *BookingHandler) Post(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req bookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	checkIn, checkOut, err := parseStayRange(req.CheckIn, req.CheckOut)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if !checkOut.After(checkIn) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_out must be after check_in"})
	}

	origin := strings.ToLower(strings.TrimSpace(req.Origin))
	in := distribution.BookInput{
		Origin:       origin,
		CheckIn:      checkIn,
		CheckOut:     checkOut,
		Guests:       req.Guests,
		HotelName:    strings.TrimSpace(req.HotelName),
		RoomTypeName: strings.TrimSpace(req.RoomTypeName),
		TotalPrice:   req.TotalPrice,
	}
	switch origin {
	case provider.OriginPMS:
		in.PMS = &provider.PMSFields{
			HotelName:    strings.TrimSpace(req.HotelName),
			RoomTypeName: strings.TrimSpace(req.RoomTypeName),
			RegimenCode:  strings.TrimSpace(req.RegimenCode),
		}
	case provider.OriginChannel:
		in.Channel = &provider.ChannelFields{
			HotelID:    req.HotelID,
			RoomTypeID: req.RoomTypeID,
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	booking, err := h.Coordinator.Book(ctx, uid, in)
	if err != nil {
		var missing *provider.MissingFieldsError
		var upstream *distribution.UpstreamError
		switch {
		case errors.Is(err, distribution.ErrUnknownOrigin):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown origin"})
		case errors.As(err, &missing):
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error":          "missing required fields",
				"origin":         missing.Origin,
				"missing_fields": missing.Fields,
			})
		case errors.Is(err, repository.ErrNoAvailability):
			return c.JSON(http.StatusConflict, echo.Map{"error": "no rooms available for the requested dates"})
		case errors.Is(err, repository.ErrHotelNotFound),
			errors.Is(err, repository.ErrRoomTypeNotFound),
			errors.Is(err, repository.ErrRegimenNotFound):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		case errors.Is(err, repository.ErrLocatorExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking already recorded for this locator"})
		case errors.As(err, &upstream):
			return c.JSON(http.StatusBadGateway, echo.Map{
				"error":  "provider rejected the booking",
				"origin": upstream.Origin,
				"detail": upstream.Err.Error(),
			})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
	}

	return c.JSON(http.StatusCreated, booking)
}

// List handles GET /v1/bookings, newest first.
func (h *BookingHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Coordinator.MyBookings(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": items, "total": len(items)})
}

// GetByLocator handles GET /v1/bookings/:locator.  A locator owned by
// another user is reported as forbidden, not as missing.
func (h *BookingHandler) GetByLocator(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	locator := strings.TrimSpace(c.Param("locator"))
	if locator == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "locator required"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	booking, err := h.Coordinator.ByLocator(ctx, uid, locator)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "booking belongs to another user"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, booking)
}
