package provider

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stay() (time.Time, time.Time) {
	ci, _ := time.Parse(wireDate, "2026-07-10")
	co, _ := time.Parse(wireDate, "2026-07-12")
	return ci, co
}

func TestValidatePMSRequest(t *testing.T) {
	ci, co := stay()
	req := BookRequest{
		CheckIn:  ci,
		CheckOut: co,
		Guests:   2,
		PMS:      &PMSFields{HotelName: "Gran Via Palace", RoomTypeName: "Double", RegimenCode: "BB"},
	}
	assert.NoError(t, req.Validate(OriginPMS))

	req.PMS.RegimenCode = ""
	err := req.Validate(OriginPMS)
	var missing *MissingFieldsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"regimen_code"}, missing.Fields)
}

func TestValidatePMSRequestWithoutVariant(t *testing.T) {
	ci, co := stay()
	req := BookRequest{CheckIn: ci, CheckOut: co, Guests: 2}

	err := req.Validate(OriginPMS)
	var missing *MissingFieldsError
	require.ErrorAs(t, err, &missing)
	assert.ElementsMatch(t, []string{"hotel_name", "room_type_name", "regimen_code"}, missing.Fields)
}

func TestValidateChannelRequest(t *testing.T) {
	ci, co := stay()
	req := BookRequest{
		CheckIn:  ci,
		CheckOut: co,
		Guests:   2,
		Channel:  &ChannelFields{HotelID: 3, RoomTypeID: 9},
	}
	assert.NoError(t, req.Validate(OriginChannel))

	req.Guests = 0
	req.Channel.RoomTypeID = 0
	err := req.Validate(OriginChannel)
	var missing *MissingFieldsError
	require.ErrorAs(t, err, &missing)
	assert.ElementsMatch(t, []string{"room_type_id", "guests"}, missing.Fields)
}

func TestValidateCollectsMissingDates(t *testing.T) {
	req := BookRequest{Guests: 2, Channel: &ChannelFields{HotelID: 3, RoomTypeID: 9}}

	err := req.Validate(OriginChannel)
	var missing *MissingFieldsError
	require.ErrorAs(t, err, &missing)
	assert.Contains(t, missing.Fields, "check_in")
	assert.Contains(t, missing.Fields, "check_out")
}

func TestValidateUnknownOrigin(t *testing.T) {
	ci, co := stay()
	req := BookRequest{CheckIn: ci, CheckOut: co, Guests: 2}

	err := req.Validate("ota")
	require.Error(t, err)
	// an unknown origin is not a missing-fields problem
	var missing *MissingFieldsError
	assert.False(t, errors.As(err, &missing))
}
