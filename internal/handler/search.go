package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iberstay/hotel-distribution/internal/distribution"
	"github.com/iberstay/hotel-distribution/internal/provider"
)

// SearchHandler fans a unified search out to every registered provider.
type SearchHandler struct {
	Aggregator *distribution.Aggregator
}

func NewSearchHandler(agg *distribution.Aggregator) *SearchHandler {
	return &SearchHandler{Aggregator: agg}
}

// Get handles GET /v1/search.  Required: check_in, check_out and the party
// size, which arrives as either ?guests= or ?guest_count= (guests wins when
// both are present).  Location filters (hotel, city, country) are optional;
// providers that need one simply contribute nothing.
func (h *SearchHandler) Get(c echo.Context) error {
	checkIn, checkOut, err := parseStayRange(c.QueryParam("check_in"), c.QueryParam("check_out"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if !checkOut.After(checkIn) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_out must be after check_in"})
	}

	guestsStr := strings.TrimSpace(c.QueryParam("guests"))
	if guestsStr == "" {
		guestsStr = strings.TrimSpace(c.QueryParam("guest_count"))
	}
	if guestsStr == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "guests required"})
	}
	guests, err := strconv.Atoi(guestsStr)
	if err != nil || guests < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "guests must be a positive integer"})
	}

	q := provider.SearchQuery{
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Guests:   guests,
		Hotel:    strings.TrimSpace(c.QueryParam("hotel")),
		City:     strings.TrimSpace(c.QueryParam("city")),
		Country:  strings.TrimSpace(c.QueryParam("country")),
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	res := h.Aggregator.Search(ctx, q)
	return c.JSON(http.StatusOK, res)
}
