package distribution

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iberstay/hotel-distribution/internal/model"
	"github.com/iberstay/hotel-distribution/internal/provider"
	"github.com/iberstay/hotel-distribution/internal/queue"
	"github.com/iberstay/hotel-distribution/internal/repository"
)

type fakeBookings struct {
	created   []*model.Booking
	createErr error
	byLocator map[string]*model.Booking
}

func (f *fakeBookings) Create(_ context.Context, b *model.Booking) error {
	if f.createErr != nil {
		return f.createErr
	}
	b.ID = uint64(len(f.created) + 1)
	f.created = append(f.created, b)
	return nil
}

func (f *fakeBookings) ListByUser(_ context.Context, userID uint64) ([]model.Booking, error) {
	out := []model.Booking{}
	for _, b := range f.created {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookings) GetByLocator(_ context.Context, locator string) (*model.Booking, error) {
	if b, ok := f.byLocator[locator]; ok {
		return b, nil
	}
	return nil, sql.ErrNoRows
}

type fakeUsers struct{ users map[uint64]model.User }

func (f *fakeUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

func knownUsers() *fakeUsers {
	return &fakeUsers{users: map[uint64]model.User{
		7: {ID: 7, Email: "ana@example.com", FirstName: "Ana", LastName: "Lopez", NationalID: "12345678Z"},
	}}
}

func bookInput(origin string) BookInput {
	ci, _ := time.Parse("2006-01-02", "2026-07-10")
	co, _ := time.Parse("2006-01-02", "2026-07-12")
	in := BookInput{
		Origin:       origin,
		CheckIn:      ci,
		CheckOut:     co,
		Guests:       2,
		HotelName:    "Gran Via Palace",
		RoomTypeName: "Double",
		TotalPrice:   160,
	}
	switch origin {
	case provider.OriginPMS:
		in.PMS = &provider.PMSFields{HotelName: "Gran Via Palace", RoomTypeName: "Double", RegimenCode: "BB"}
	case provider.OriginChannel:
		in.Channel = &provider.ChannelFields{HotelID: 3, RoomTypeID: 9}
	}
	return in
}

func TestBookPersistsLocalRecord(t *testing.T) {
	adapter := &fakeAdapter{
		origin:     provider.OriginChannel,
		bookResult: provider.BookResult{Locator: "LOC-ABC123", TotalPrice: 180},
	}
	store := &fakeBookings{}
	var published []queue.BookingConfirmedEvent
	coord := NewCoordinator([]provider.Adapter{adapter}, store, knownUsers(),
		func(_ context.Context, ev queue.BookingConfirmedEvent) error {
			published = append(published, ev)
			return nil
		})

	b, err := coord.Book(context.Background(), 7, bookInput(provider.OriginChannel))
	require.NoError(t, err)

	assert.Equal(t, "LOC-ABC123", b.Locator)
	assert.Equal(t, provider.OriginChannel, b.Origin)
	assert.Equal(t, uint64(7), b.UserID)
	// the provider's own total wins over the offer echo
	assert.Equal(t, 180.0, b.TotalPrice)
	assert.NotEmpty(t, b.Reference)
	require.Len(t, store.created, 1)

	// the guest identity forwarded upstream comes from the user profile
	require.Len(t, adapter.booked, 1)
	assert.Equal(t, "Ana", adapter.booked[0].Guest.FirstName)
	assert.Equal(t, "ana@example.com", adapter.booked[0].Guest.Email)

	require.Len(t, published, 1)
	assert.Equal(t, "LOC-ABC123", published[0].Locator)
}

func TestBookUnknownOrigin(t *testing.T) {
	coord := NewCoordinator(nil, &fakeBookings{}, knownUsers(), nil)

	_, err := coord.Book(context.Background(), 7, bookInput("gds-x"))
	assert.ErrorIs(t, err, ErrUnknownOrigin)
}

func TestBookUnauthenticated(t *testing.T) {
	coord := NewCoordinator(nil, &fakeBookings{}, knownUsers(), nil)

	_, err := coord.Book(context.Background(), 0, bookInput(provider.OriginChannel))
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestBookMissingVariantFieldsFailBeforeAdapterCall(t *testing.T) {
	adapter := &fakeAdapter{origin: provider.OriginPMS}
	coord := NewCoordinator([]provider.Adapter{adapter}, &fakeBookings{}, knownUsers(), nil)

	in := bookInput(provider.OriginPMS)
	in.PMS.RegimenCode = ""

	_, err := coord.Book(context.Background(), 7, in)

	var missing *provider.MissingFieldsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, provider.OriginPMS, missing.Origin)
	assert.Contains(t, missing.Fields, "regimen_code")
	assert.Empty(t, adapter.booked, "adapter must not be called with an invalid request")
}

func TestBookUpstreamFailureIsWrapped(t *testing.T) {
	adapter := &fakeAdapter{origin: provider.OriginChannel, bookErr: errors.New("habitaciones agotadas")}
	store := &fakeBookings{}
	coord := NewCoordinator([]provider.Adapter{adapter}, store, knownUsers(), nil)

	_, err := coord.Book(context.Background(), 7, bookInput(provider.OriginChannel))

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, provider.OriginChannel, upstream.Origin)
	assert.Empty(t, store.created)
}

func TestBookPersistFailureSurfaces(t *testing.T) {
	adapter := &fakeAdapter{
		origin:     provider.OriginChannel,
		bookResult: provider.BookResult{Locator: "LOC-ORPHAN"},
	}
	store := &fakeBookings{createErr: errors.New("db gone")}
	coord := NewCoordinator([]provider.Adapter{adapter}, store, knownUsers(), nil)

	_, err := coord.Book(context.Background(), 7, bookInput(provider.OriginChannel))
	assert.Error(t, err)
}

func TestBookFallsBackToOfferPriceWhenProviderOmitsTotal(t *testing.T) {
	adapter := &fakeAdapter{
		origin:     provider.OriginPMS,
		bookResult: provider.BookResult{Locator: "PMS-42"},
	}
	store := &fakeBookings{}
	coord := NewCoordinator([]provider.Adapter{adapter}, store, knownUsers(), nil)

	b, err := coord.Book(context.Background(), 7, bookInput(provider.OriginPMS))
	require.NoError(t, err)
	assert.Equal(t, 160.0, b.TotalPrice)
}

func TestByLocatorOwnership(t *testing.T) {
	store := &fakeBookings{byLocator: map[string]*model.Booking{
		"LOC-1": {ID: 1, UserID: 7, Locator: "LOC-1"},
	}}
	coord := NewCoordinator(nil, store, knownUsers(), nil)

	b, err := coord.ByLocator(context.Background(), 7, "LOC-1")
	require.NoError(t, err)
	assert.Equal(t, "LOC-1", b.Locator)

	// someone else's locator is forbidden, not missing
	_, err = coord.ByLocator(context.Background(), 8, "LOC-1")
	assert.ErrorIs(t, err, repository.ErrForbidden)

	_, err = coord.ByLocator(context.Background(), 7, "LOC-UNKNOWN")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestMyBookingsFiltersByUser(t *testing.T) {
	store := &fakeBookings{created: []*model.Booking{
		{ID: 1, UserID: 7, Locator: "A"},
		{ID: 2, UserID: 8, Locator: "B"},
		{ID: 3, UserID: 7, Locator: "C"},
	}}
	coord := NewCoordinator(nil, store, knownUsers(), nil)

	items, err := coord.MyBookings(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}
