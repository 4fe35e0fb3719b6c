package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func channelQuery() SearchQuery {
	ci, _ := time.Parse(wireDate, "2026-07-10")
	co, _ := time.Parse(wireDate, "2026-07-12")
	return SearchQuery{CheckIn: ci, CheckOut: co, Guests: 2}
}

func TestChannelSearchMapsWireFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/disponibilidad/buscar", r.URL.Path)
		assert.Equal(t, "2026-07-10", r.URL.Query().Get("fecha_inicio"))
		assert.Equal(t, "2026-07-12", r.URL.Query().Get("fecha_fin"))
		assert.Equal(t, "2", r.URL.Query().Get("num_huespedes"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]map[string]interface{}{
			{
				"tipo_habitacion_id":  9,
				"tipo_nombre":         "Doble Estandar",
				"hotel_id":            3,
				"hotel_nombre":        "Hotel Costa",
				"descripcion":         "Vista al mar",
				"capacidad_max":       2,
				"precio":              160.0,
				"cantidad_disponible": 4,
				"foto_url":            "https://example.com/room.jpg",
				"servicios":           "wifi, aire acondicionado",
			},
		})
	}))
	defer srv.Close()

	ch := NewChannel(srv.URL, time.Second)
	offers, err := ch.Search(context.Background(), channelQuery())
	require.NoError(t, err)
	require.Len(t, offers, 1)

	o := offers[0]
	assert.Equal(t, "9", o.ID)
	assert.Equal(t, uint64(3), o.HotelID)
	assert.Equal(t, "Doble Estandar", o.RoomTypeName)
	assert.Equal(t, "Hotel Costa", o.HotelName)
	assert.Equal(t, 2, o.Capacity)
	// 160 for two nights -> 80 a night
	assert.Equal(t, 80.0, o.NightlyPrice)
	assert.True(t, o.Available)
	assert.Equal(t, OriginChannel, o.Origin)
	assert.Equal(t, []string{"wifi", "aire acondicionado"}, o.Amenities)
}

func TestChannelSearchNon200IsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ch := NewChannel(srv.URL, time.Second)
	_, err := ch.Search(context.Background(), channelQuery())
	assert.Error(t, err)
}

func TestChannelSearchUnreachableHostIsError(t *testing.T) {
	ch := NewChannel("http://127.0.0.1:1", 200*time.Millisecond)
	_, err := ch.Search(context.Background(), channelQuery())
	assert.Error(t, err)
}

func channelBookRequest() BookRequest {
	ci, _ := time.Parse(wireDate, "2026-07-10")
	co, _ := time.Parse(wireDate, "2026-07-12")
	return BookRequest{
		CheckIn:  ci,
		CheckOut: co,
		Guests:   2,
		Guest:    GuestIdentity{FirstName: "Ana", LastName: "Lopez", Email: "ana@example.com"},
		Channel:  &ChannelFields{HotelID: 3, RoomTypeID: 9},
	}
}

func TestChannelBookPostsWireFormat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/reservas/crear", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(3), body["hotel_id"])
		assert.Equal(t, float64(9), body["tipo_habitacion_id"])
		assert.Equal(t, "2026-07-10", body["fecha_entrada"])
		assert.Equal(t, "2026-07-12", body["fecha_salida"])
		assert.Equal(t, float64(1), body["num_habitaciones"])
		assert.Equal(t, "Ana Lopez", body["cliente_nombre"])
		assert.Equal(t, "ana@example.com", body["cliente_email"])

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":           42,
			"localizador":  "LOC-7F3K9",
			"precio_total": 160.0,
		})
	}))
	defer srv.Close()

	ch := NewChannel(srv.URL, time.Second)
	res, err := ch.Book(context.Background(), channelBookRequest())
	require.NoError(t, err)

	assert.Equal(t, "LOC-7F3K9", res.Locator)
	assert.Equal(t, 160.0, res.TotalPrice)
	assert.NotEmpty(t, res.Payload)
}

func TestChannelBookSurfacesDetailMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "No hay habitaciones disponibles"})
	}))
	defer srv.Close()

	ch := NewChannel(srv.URL, time.Second)
	_, err := ch.Book(context.Background(), channelBookRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No hay habitaciones disponibles")
}

func TestChannelBookMissingLocatorIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": 42})
	}))
	defer srv.Close()

	ch := NewChannel(srv.URL, time.Second)
	_, err := ch.Book(context.Background(), channelBookRequest())
	assert.Error(t, err)
}

func TestChannelBookWithoutVariantFields(t *testing.T) {
	ch := NewChannel("http://unused", time.Second)
	req := channelBookRequest()
	req.Channel = nil

	_, err := ch.Book(context.Background(), req)
	var missing *MissingFieldsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, OriginChannel, missing.Origin)
}
