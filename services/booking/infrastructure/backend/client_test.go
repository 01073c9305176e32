package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/codeinozzz/capstone-prog-5-front/pkg/config"
	"github.com/codeinozzz/capstone-prog-5-front/pkg/logger"
	"github.com/codeinozzz/capstone-prog-5-front/pkg/restapi"
	"github.com/codeinozzz/capstone-prog-5-front/services/booking/domain/models"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	log := logger.New(&config.Config{LogLevel: "error"})
	return NewClient(restapi.New(srv.URL, log))
}

// TestCreate_WireFormat pins the create payload to the backend's contract:
// guest contact fields including phone, and checkInDate/checkOutDate keys
// for the stay dates.
func TestCreate_WireFormat(t *testing.T) {
	var body map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("/bookings", func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read body: %v", err)
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":"b1","confirmationNumber":"AB1234"}}`))
	})
	c := newTestClient(t, mux)

	booking, err := c.Create(context.Background(), "tok", models.CreateBookingRequest{
		HotelID:   "h1",
		RoomID:    "r1",
		FirstName: "Ana",
		LastName:  "Ruiz",
		Phone:     "+15550100",
		Email:     "ana@example.com",
		CheckIn:   "2026-06-01",
		CheckOut:  "2026-06-03",
		Guests:    2,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if booking.ConfirmationNumber != "AB1234" {
		t.Errorf("confirmation number: got %q", booking.ConfirmationNumber)
	}

	if body["phone"] != "+15550100" {
		t.Errorf("phone on wire: got %v", body["phone"])
	}
	if body["checkInDate"] != "2026-06-01" || body["checkOutDate"] != "2026-06-03" {
		t.Errorf("date keys on wire: got %v / %v", body["checkInDate"], body["checkOutDate"])
	}
	for _, stale := range []string{"checkIn", "checkOut"} {
		if _, ok := body[stale]; ok {
			t.Errorf("unexpected %q key on wire", stale)
		}
	}
}

// TestMyBookings_DecodesBackendDates verifies the read model picks up the
// backend's checkInDate/checkOutDate fields.
func TestMyBookings_DecodesBackendDates(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/bookings/my", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("authorization: got %q", got)
		}
		_, _ = w.Write([]byte(`{"success":true,"data":[
			{"id":"b1","confirmationNumber":"AB1234","checkInDate":"2026-06-01","checkOutDate":"2026-06-03","status":"confirmed"}
		]}`))
	})
	c := newTestClient(t, mux)

	bookings, err := c.MyBookings(context.Background(), "tok")
	if err != nil {
		t.Fatalf("my bookings: %v", err)
	}
	if len(bookings) != 1 {
		t.Fatalf("expected 1 booking, got %d", len(bookings))
	}
	if bookings[0].CheckIn != "2026-06-01" || bookings[0].CheckOut != "2026-06-03" {
		t.Errorf("dates decoded as %q / %q", bookings[0].CheckIn, bookings[0].CheckOut)
	}
}

func TestCancel_CallsCancelEndpoint(t *testing.T) {
	var path, method string
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		path, method = r.URL.Path, r.Method
		_, _ = w.Write([]byte(`{"success":true}`))
	})
	c := newTestClient(t, mux)

	if err := c.Cancel(context.Background(), "tok", "b1"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if method != http.MethodPut || path != "/bookings/b1/cancel" {
		t.Errorf("request: got %s %s", method, path)
	}
}
