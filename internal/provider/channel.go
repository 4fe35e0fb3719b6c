package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/iberstay/hotel-distribution/internal/model"
)

// Channel is the adapter for the remote channel-manager provider.  It owns
// the provider's base URL and HTTP client; the client timeout is the
// per-call boundary that lets an unresponsive channel degrade its own
// search contribution without delaying the other providers.
type Channel struct {
	baseURL string
	client  *http.Client
}

// NewChannel returns a channel adapter calling the given base URL with the
// given per-call timeout.
func NewChannel(baseURL string, timeout time.Duration) *Channel {
	return &Channel{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Origin returns the provider tag.
func (ch *Channel) Origin() string { return OriginChannel }

// channelOffer mirrors one item of the channel's availability response.
// The precio field is the accumulated price for the whole stay.
type channelOffer struct {
	RoomTypeID  uint64  `json:"tipo_habitacion_id"`
	RoomType    string  `json:"tipo_nombre"`
	HotelID     uint64  `json:"hotel_id"`
	HotelName   string  `json:"hotel_nombre"`
	Description string  `json:"descripcion"`
	MaxGuests   int     `json:"capacidad_max"`
	StayPrice   float64 `json:"precio"`
	Remaining   int     `json:"cantidad_disponible"`
	PhotoURL    string  `json:"foto_url"`
	Services    string  `json:"servicios"`
}

// Search queries the channel's public availability endpoint and maps its
// fields into unified offers.  Transport failures and non-2xx responses
// come back as errors for the orchestrator to absorb and log.
func (ch *Channel) Search(ctx context.Context, q SearchQuery) ([]Offer, error) {
	params := url.Values{}
	params.Set("fecha_inicio", q.CheckIn.Format(wireDate))
	params.Set("fecha_fin", q.CheckOut.Format(wireDate))
	params.Set("num_huespedes", strconv.Itoa(q.Guests))

	reqURL := ch.baseURL + "/api/disponibilidad/buscar?" + params.Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := ch.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("channel search: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("channel search: unexpected status %d", resp.StatusCode)
	}

	var items []channelOffer
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("channel search: decode: %w", err)
	}

	nights := len(model.StayDates(q.CheckIn, q.CheckOut))
	offers := make([]Offer, 0, len(items))
	for _, it := range items {
		nightly := it.StayPrice
		if nights > 0 {
			nightly = it.StayPrice / float64(nights)
		}
		offers = append(offers, Offer{
			ID:           strconv.FormatUint(it.RoomTypeID, 10),
			HotelID:      it.HotelID,
			RoomTypeName: it.RoomType,
			HotelName:    it.HotelName,
			Capacity:     it.MaxGuests,
			NightlyPrice: nightly,
			PhotoURL:     it.PhotoURL,
			Origin:       OriginChannel,
			Available:    it.Remaining > 0,
			Amenities:    splitServices(it.Services),
		})
	}
	return offers, nil
}

// channelBooking mirrors the channel's create-reservation response.
type channelBooking struct {
	ID         uint64  `json:"id"`
	Locator    string  `json:"localizador"`
	TotalPrice float64 `json:"precio_total"`
}

// Book posts a reservation to the channel.  Unlike Search, failures here
// propagate to the caller: the error carries the provider's detail message
// when one is available.
func (ch *Channel) Book(ctx context.Context, req BookRequest) (BookResult, error) {
	if req.Channel == nil {
		return BookResult{}, &MissingFieldsError{Origin: OriginChannel, Fields: []string{"hotel_id", "room_type_id"}}
	}
	body, err := json.Marshal(map[string]interface{}{
		"hotel_id":           req.Channel.HotelID,
		"tipo_habitacion_id": req.Channel.RoomTypeID,
		"fecha_entrada":      req.CheckIn.Format(wireDate),
		"fecha_salida":       req.CheckOut.Format(wireDate),
		"num_habitaciones":   1,
		"num_huespedes":      req.Guests,
		"cliente_nombre":     strings.TrimSpace(req.Guest.FirstName + " " + req.Guest.LastName),
		"cliente_email":      req.Guest.Email,
	})
	if err != nil {
		return BookResult{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		ch.baseURL+"/api/reservas/crear", bytes.NewReader(body))
	if err != nil {
		return BookResult{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := ch.client.Do(httpReq)
	if err != nil {
		return BookResult{}, fmt.Errorf("channel book: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return BookResult{}, fmt.Errorf("channel book: read response: %w", err)
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		// FastAPI-style error bodies carry a "detail" field.
		var detail struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(raw, &detail) == nil && detail.Detail != "" {
			return BookResult{}, fmt.Errorf("channel book: %s", detail.Detail)
		}
		return BookResult{}, fmt.Errorf("channel book: unexpected status %d", resp.StatusCode)
	}

	var booked channelBooking
	if err := json.Unmarshal(raw, &booked); err != nil {
		return BookResult{}, fmt.Errorf("channel book: decode: %w", err)
	}
	if booked.Locator == "" {
		return BookResult{}, fmt.Errorf("channel book: response carried no locator")
	}
	return BookResult{
		Locator:    booked.Locator,
		TotalPrice: booked.TotalPrice,
		Payload:    raw,
	}, nil
}

func splitServices(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
