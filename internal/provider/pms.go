package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/iberstay/hotel-distribution/internal/availability"
	"github.com/iberstay/hotel-distribution/internal/model"
	"github.com/iberstay/hotel-distribution/internal/repository"
)

// pmsPhotoURL is served for inventory offers, which carry no photo of
// their own.
const pmsPhotoURL = "https://images.unsplash.com/photo-1566665797739-1674de7a421a?w=800"

// PMS is the adapter for the inventory-owning provider.  It is served
// in-process: search delegates to the availability engine and book runs the
// reservation-create transaction directly, including the capacity re-check.
type PMS struct {
	engine       *availability.Engine
	inventory    *repository.InventoryRepo
	reservations *repository.ReservationRepo
}

// NewPMS returns the inventory-owning adapter.
func NewPMS(engine *availability.Engine, inv *repository.InventoryRepo, res *repository.ReservationRepo) *PMS {
	return &PMS{engine: engine, inventory: inv, reservations: res}
}

// Origin returns the provider tag.
func (p *PMS) Origin() string { return OriginPMS }

// Search runs the availability computation and flattens the per-hotel room
// type lists into unified offers.  The inventory requires a location
// filter; when the unified query carries none the engine's MissingFilter
// error surfaces here and the orchestrator absorbs it as an empty
// contribution, matching how the provider behaves for remote callers.
func (p *PMS) Search(ctx context.Context, q SearchQuery) ([]Offer, error) {
	f := repository.HotelFilter{HotelName: q.Hotel, City: q.City, Country: q.Country}
	hotels, err := p.engine.Compute(ctx, f, q.CheckIn, q.CheckOut)
	if err != nil {
		return nil, err
	}
	offers := make([]Offer, 0)
	for _, h := range hotels {
		for _, t := range h.RoomTypes {
			if q.Guests > 0 && t.Capacity < q.Guests {
				continue
			}
			offers = append(offers, Offer{
				ID:           strconv.FormatUint(t.RoomTypeID, 10),
				HotelID:      h.Hotel.ID,
				RoomTypeName: t.Category,
				HotelName:    h.Hotel.Name,
				Capacity:     t.Capacity,
				NightlyPrice: t.NightlyRate,
				PhotoURL:     pmsPhotoURL,
				Origin:       OriginPMS,
				Available:    t.Available > 0,
				Amenities:    []string{},
			})
		}
	}
	return offers, nil
}

// Book creates a reservation in the inventory store.  The hotel, room type
// and regimen are resolved by the same display-name semantics the offers
// use, then one transaction locks the room rows for the type, re-runs the
// overlap count, deduplicates the paying guest and inserts the reservation
// with its stay nights.  The locator is derived from the reservation id.
func (p *PMS) Book(ctx context.Context, req BookRequest) (BookResult, error) {
	if req.PMS == nil {
		return BookResult{}, &MissingFieldsError{Origin: OriginPMS, Fields: []string{"hotel_name", "room_type_name", "regimen_code"}}
	}
	hotels, err := p.inventory.HotelsByFilter(ctx, repository.HotelFilter{HotelName: req.PMS.HotelName})
	if err != nil {
		return BookResult{}, err
	}
	if len(hotels) == 0 {
		return BookResult{}, repository.ErrHotelNotFound
	}
	hotel := hotels[0]

	roomType, err := p.inventory.RoomTypeByCategory(ctx, hotel.ID, req.PMS.RoomTypeName)
	if err != nil {
		return BookResult{}, err
	}
	regimenRateID, regimenRate, err := p.inventory.RegimenRate(ctx, hotel.ID, req.PMS.RegimenCode)
	if err != nil {
		return BookResult{}, err
	}
	rates, err := p.inventory.NightlyRates(ctx, hotel.ID)
	if err != nil {
		return BookResult{}, err
	}

	tx, err := p.reservations.DB().BeginTx(ctx, nil)
	if err != nil {
		return BookResult{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := p.reservations.CapacityCheckTx(ctx, tx, hotel.ID, roomType.ID, req.CheckIn, req.CheckOut); err != nil {
		return BookResult{}, err
	}
	guest := model.Guest{
		FirstName:  req.Guest.FirstName,
		LastName:   req.Guest.LastName,
		Email:      req.Guest.Email,
		NationalID: req.Guest.NationalID,
		BirthDate:  req.Guest.BirthDate,
	}
	if err := p.reservations.FindOrCreateGuestTx(ctx, tx, &guest); err != nil {
		return BookResult{}, err
	}
	reservation := model.Reservation{
		GuestID:       guest.ID,
		RegimenRateID: regimenRateID,
		CheckIn:       req.CheckIn,
		CheckOut:      req.CheckOut,
		Channel:       "GDS",
	}
	if err := p.reservations.CreateTx(ctx, tx, &reservation, roomType.ID); err != nil {
		return BookResult{}, err
	}
	if err := tx.Commit(); err != nil {
		return BookResult{}, err
	}
	committed = true

	nights := len(model.StayDates(req.CheckIn, req.CheckOut))
	total := (rates[roomType.ID] + regimenRate) * float64(nights)

	payload, _ := json.Marshal(map[string]interface{}{
		"reservation_id": reservation.ID,
		"hotel":          hotel.Name,
		"room_type":      roomType.Category,
		"regimen":        req.PMS.RegimenCode,
		"nights":         nights,
		"nightly_rate":   rates[roomType.ID],
		"regimen_rate":   regimenRate,
	})
	return BookResult{
		Locator:    fmt.Sprintf("PMS-%d", reservation.ID),
		TotalPrice: total,
		Payload:    payload,
	}, nil
}
