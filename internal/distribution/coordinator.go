package distribution

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/iberstay/hotel-distribution/internal/model"
	"github.com/iberstay/hotel-distribution/internal/provider"
	"github.com/iberstay/hotel-distribution/internal/queue"
	"github.com/iberstay/hotel-distribution/internal/repository"
)

// ErrUnauthenticated is returned when no authenticated user id accompanies
// a booking operation.
var ErrUnauthenticated = errors.New("authentication required")

// ErrUnknownOrigin is returned when the requested origin matches no
// registered provider tag.
var ErrUnknownOrigin = errors.New("origin is not a registered provider")

// UpstreamError wraps a provider adapter's booking failure, preserving the
// provider's own message for the caller.
type UpstreamError struct {
	Origin string
	Err    error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("provider %s booking failed: %v", e.Origin, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// BookingStore is the slice of the booking repository the coordinator
// writes and reads.  Declared here so tests can substitute a fake.
type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error)
	GetByLocator(ctx context.Context, locator string) (*model.Booking, error)
}

// UserDirectory resolves the acting user's profile to build the
// paying-guest identity forwarded to providers.
type UserDirectory interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// BookInput carries one unified booking request: the target origin, the
// common stay fields, the display fields echoed from the chosen offer, and
// exactly one per-origin field set.
type BookInput struct {
	Origin       string
	CheckIn      time.Time
	CheckOut     time.Time
	Guests       int
	HotelName    string
	RoomTypeName string
	TotalPrice   float64
	PMS          *provider.PMSFields
	Channel      *provider.ChannelFields
}

// Coordinator selects the owning provider for a booking, delegates
// creation to its adapter and durably persists the local reservation
// record before success is reported.  It also serves the read side over
// the local records.
type Coordinator struct {
	adapters map[string]provider.Adapter
	bookings BookingStore
	users    UserDirectory
	publish  func(ctx context.Context, ev queue.BookingConfirmedEvent) error
}

// NewCoordinator builds a coordinator over the given adapters.  The
// publish callback is optional; when nil, no booking events are emitted.
func NewCoordinator(adapters []provider.Adapter, bookings BookingStore, users UserDirectory,
	publish func(ctx context.Context, ev queue.BookingConfirmedEvent) error) *Coordinator {
	byOrigin := make(map[string]provider.Adapter, len(adapters))
	for _, ad := range adapters {
		byOrigin[ad.Origin()] = ad
	}
	return &Coordinator{adapters: byOrigin, bookings: bookings, users: users, publish: publish}
}

// Book validates the request, calls the owning adapter and persists the
// local record.  The provider-specific required subset is validated before
// any adapter call; adapter failures propagate as UpstreamError.  If local
// persistence fails after a successful upstream booking an orphaned
// upstream reservation exists with no local record; that is logged as a
// reconciliation-required event and the error is surfaced, never hidden.
func (c *Coordinator) Book(ctx context.Context, userID uint64, in BookInput) (*model.Booking, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	adapter, ok := c.adapters[in.Origin]
	if !ok {
		return nil, ErrUnknownOrigin
	}

	user, err := c.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	req := provider.BookRequest{
		CheckIn:  in.CheckIn,
		CheckOut: in.CheckOut,
		Guests:   in.Guests,
		Guest: provider.GuestIdentity{
			FirstName:  user.FirstName,
			LastName:   user.LastName,
			Email:      user.Email,
			NationalID: user.NationalID,
			BirthDate:  user.BirthDate,
		},
		PMS:     in.PMS,
		Channel: in.Channel,
	}
	if err := req.Validate(in.Origin); err != nil {
		return nil, err
	}

	result, err := adapter.Book(ctx, req)
	if err != nil {
		return nil, &UpstreamError{Origin: in.Origin, Err: err}
	}

	total := result.TotalPrice
	if total == 0 {
		total = in.TotalPrice
	}
	booking := &model.Booking{
		Reference:    uuid.NewString(),
		UserID:       userID,
		Origin:       in.Origin,
		Locator:      result.Locator,
		HotelName:    in.HotelName,
		RoomTypeName: in.RoomTypeName,
		CheckIn:      in.CheckIn.Format("2006-01-02"),
		CheckOut:     in.CheckOut.Format("2006-01-02"),
		Guests:       in.Guests,
		TotalPrice:   total,
		Payload:      result.Payload,
	}
	if err := c.bookings.Create(ctx, booking); err != nil {
		log.Printf("booking: reconciliation required: upstream reservation exists with no local record origin=%s locator=%s user=%d: %v",
			in.Origin, result.Locator, userID, err)
		return nil, err
	}

	if c.publish != nil {
		ev := queue.BookingConfirmedEvent{
			BookingID:    booking.ID,
			Reference:    booking.Reference,
			UserID:       userID,
			Origin:       booking.Origin,
			Locator:      booking.Locator,
			HotelName:    booking.HotelName,
			RoomTypeName: booking.RoomTypeName,
			CheckIn:      booking.CheckIn,
			CheckOut:     booking.CheckOut,
			Guests:       booking.Guests,
			TotalPrice:   booking.TotalPrice,
			ConfirmedAt:  time.Now().UTC().Format(time.RFC3339),
		}
		if err := c.publish(ctx, ev); err != nil {
			log.Printf("booking: event publish failed for locator %s: %v", booking.Locator, err)
		}
	}
	return booking, nil
}

// MyBookings returns the caller's local records, newest first.
func (c *Coordinator) MyBookings(ctx context.Context, userID uint64) ([]model.Booking, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	return c.bookings.ListByUser(ctx, userID)
}

// ByLocator returns one record by upstream locator.  Existence is checked
// first; only then is ownership verified, so a known locator owned by
// someone else yields ErrForbidden rather than a not-found.
func (c *Coordinator) ByLocator(ctx context.Context, userID uint64, locator string) (*model.Booking, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	booking, err := c.bookings.GetByLocator(ctx, locator)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, repository.ErrForbidden
	}
	return booking, nil
}
