package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iberstay/hotel-distribution/internal/repository"
)

// StayHandler covers the front-desk lifecycle of inventory reservations:
// cancellation before arrival, check-in with room assignment and check-out.
type StayHandler struct {
	Reservations *repository.ReservationRepo
	Contracts    *repository.ContractRepo
}

func NewStayHandler(res *repository.ReservationRepo, con *repository.ContractRepo) *StayHandler {
	return &StayHandler{Reservations: res, Contracts: con}
}

func pathID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("id must be a positive integer")
	}
	return id, nil
}

// Cancel handles POST /v1/reservations/:id/cancel.  Only an active,
// not-checked-in reservation can be cancelled; the freed nights become
// available to the engine immediately.
func (h *StayHandler) Cancel(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Reservations.Cancel(ctx, id); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "reservation cannot be cancelled"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": "CANCELLED"})
}

// CheckIn handles POST /v1/reservations/:id/checkin.  A physical room of
// the reserved type is assigned and an open lodging contract is created.
func (h *StayHandler) CheckIn(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	contract, err := h.Contracts.CheckIn(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "reservation is not ready for check-in"})
		case errors.Is(err, repository.ErrNoAvailability):
			return c.JSON(http.StatusConflict, echo.Map{"error": "no free room of the reserved type"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "check-in failed"})
	}
	return c.JSON(http.StatusCreated, contract)
}

// CheckOut handles POST /v1/contracts/:id/checkout.  The contract is
// closed and the reservation completed; the room becomes assignable again.
func (h *StayHandler) CheckOut(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	contract, err := h.Contracts.CheckOut(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "contract not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "contract is not open"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "check-out failed"})
	}
	return c.JSON(http.StatusOK, contract)
}
