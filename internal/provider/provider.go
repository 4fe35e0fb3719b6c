// Package provider defines the unified search/book contract spoken by every
// upstream reservation system, plus one concrete adapter per provider.
// Each adapter owns one provider's endpoint, field mapping and error
// normalization; adapters share no mutable state and are safe for
// concurrent use.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Origin tags for the registered providers.  The PMS origin is the
// inventory-owning system served in-process; the channel origin is the
// remote channel manager.
const (
	OriginPMS     = "pms"
	OriginChannel = "channel"
)

// wireDate is the date-only layout used on every provider wire format.
const wireDate = "2006-01-02"

// Offer is one provider's candidate room-type/price/date combination in the
// unified shape returned by search.
type Offer struct {
	ID           string   `json:"id"`
	HotelID      uint64   `json:"hotel_id,omitempty"`
	RoomTypeName string   `json:"room_type_name"`
	HotelName    string   `json:"hotel_name"`
	Capacity     int      `json:"capacity"`
	NightlyPrice float64  `json:"nightly_price"`
	PhotoURL     string   `json:"photo_url"`
	Origin       string   `json:"origin"`
	Available    bool     `json:"available"`
	Amenities    []string `json:"amenities"`
}

// SearchQuery carries the unified search parameters.  The location filter
// (hotel name, city, country) is optional; adapters that require one treat
// its absence as their own failure, which the orchestrator absorbs.
type SearchQuery struct {
	CheckIn  time.Time
	CheckOut time.Time
	Guests   int
	Hotel    string
	City     string
	Country  string
}

// GuestIdentity is the paying guest forwarded to the provider at booking
// time, resolved from the authenticated user's profile.
type GuestIdentity struct {
	FirstName  string
	LastName   string
	Email      string
	NationalID string
	BirthDate  *time.Time
}

// PMSFields are the booking fields only the inventory-owning provider
// requires: the hotel and room type by display name plus a meal-plan
// (regimen) code.
type PMSFields struct {
	HotelName    string `json:"hotel_name"`
	RoomTypeName string `json:"room_type_name"`
	RegimenCode  string `json:"regimen_code"`
}

// ChannelFields are the booking fields only the channel provider requires:
// the numeric hotel and room type identifiers it issued in its offers.
type ChannelFields struct {
	HotelID    uint64 `json:"hotel_id"`
	RoomTypeID uint64 `json:"room_type_id"`
}

// BookRequest is the tagged booking variant: common fields plus exactly one
// per-origin field set.  Validate checks the subset the selected origin
// requires before any network call is made.
type BookRequest struct {
	CheckIn  time.Time
	CheckOut time.Time
	Guests   int
	Guest    GuestIdentity
	PMS      *PMSFields
	Channel  *ChannelFields
}

// MissingFieldsError names every required booking field the caller left
// empty for the selected origin.  It is user-correctable and surfaced
// verbatim as a validation failure.
type MissingFieldsError struct {
	Origin string
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing required fields for origin %q: %s", e.Origin, strings.Join(e.Fields, ", "))
}

// Validate checks the per-origin mandatory subset of a booking request.
// Unknown origins are rejected here too so adapters never see them.
func (r BookRequest) Validate(origin string) error {
	var missing []string
	if r.CheckIn.IsZero() {
		missing = append(missing, "check_in")
	}
	if r.CheckOut.IsZero() {
		missing = append(missing, "check_out")
	}
	switch origin {
	case OriginPMS:
		f := r.PMS
		if f == nil || f.HotelName == "" {
			missing = append(missing, "hotel_name")
		}
		if f == nil || f.RoomTypeName == "" {
			missing = append(missing, "room_type_name")
		}
		if f == nil || f.RegimenCode == "" {
			missing = append(missing, "regimen_code")
		}
	case OriginChannel:
		f := r.Channel
		if f == nil || f.HotelID == 0 {
			missing = append(missing, "hotel_id")
		}
		if f == nil || f.RoomTypeID == 0 {
			missing = append(missing, "room_type_id")
		}
		if r.Guests <= 0 {
			missing = append(missing, "guests")
		}
	default:
		return fmt.Errorf("unknown origin %q", origin)
	}
	if len(missing) > 0 {
		return &MissingFieldsError{Origin: origin, Fields: missing}
	}
	return nil
}

// BookResult is a successful upstream booking: the provider-issued locator,
// the price the provider charged, and its raw response payload for the
// local audit record.
type BookResult struct {
	Locator    string
	TotalPrice float64
	Payload    json.RawMessage
}

// Adapter is the capability set implemented once per upstream provider.
//
// Search translates the unified query to the provider's wire format.  An
// error return means that provider contributes nothing; the orchestrator
// logs the cause and degrades to an empty contribution, so one dead
// provider never fails the aggregate search.
//
// Book creates a reservation upstream and does propagate failure: booking
// errors must never be silently swallowed.
type Adapter interface {
	Origin() string
	Search(ctx context.Context, q SearchQuery) ([]Offer, error)
	Book(ctx context.Context, req BookRequest) (BookResult, error)
}
