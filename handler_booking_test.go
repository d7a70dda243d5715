package eurailnet

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandleBookTrip(t *testing.T) {
	app := newTestApp(t)
	ref := segmentRef(connByID(t, app.Network, "R001"))
	body, _ := json.Marshal(bookTripRequest{
		Connections: []SegmentRef{ref},
		Travellers:  []TravellerData{alice()},
	})

	rec := httptest.NewRecorder()
	app.handleTrips(rec, httptest.NewRequest(http.MethodPost, "/api/trips", strings.NewReader(string(body))))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var snap TripSnapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatal(err)
	}
	if snap.ID == "" || len(snap.Segments) != 1 || len(snap.Reservations) != 1 {
		t.Fatalf("snapshot = %+v", snap)
	}
	if snap.Reservations[0].TicketID != 1 {
		t.Errorf("ticket id = %d, want 1", snap.Reservations[0].TicketID)
	}

	// The booking shows up in the traveller-scoped listing.
	rec2 := httptest.NewRecorder()
	app.handleTrips(rec2, httptest.NewRequest(http.MethodGet, "/api/trips?travellerId=T-100", nil))
	if rec2.Code != http.StatusOK {
		t.Fatal(rec2.Code)
	}
	var listed []TripSnapshot
	if err := json.Unmarshal(rec2.Body.Bytes(), &listed); err != nil {
		t.Fatal(err)
	}
	if len(listed) != 1 || listed[0].ID != snap.ID {
		t.Errorf("listing = %+v", listed)
	}
}

func TestHandleBookTripUnknownSegment(t *testing.T) {
	app := newTestApp(t)
	body, _ := json.Marshal(bookTripRequest{
		Connections: []SegmentRef{{
			RouteID: "R999", DepartureCity: "Paris", ArrivalCity: "Lyon",
			DepartureTime: "08:00", ArrivalTime: "10:00", TrainType: "TGV",
		}},
		Travellers: []TravellerData{alice()},
	})
	rec := httptest.NewRecorder()
	app.handleTrips(rec, httptest.NewRequest(http.MethodPost, "/api/trips", strings.NewReader(string(body))))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if len(app.Bookings.Trips()) != 0 {
		t.Error("failed booking must not record a trip")
	}
}

func TestHandleBookTripBadBody(t *testing.T) {
	app := newTestApp(t)
	rec := httptest.NewRecorder()
	app.handleTrips(rec, httptest.NewRequest(http.MethodPost, "/api/trips", strings.NewReader("{")))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandleTripsMethodNotAllowed(t *testing.T) {
	app := newTestApp(t)
	rec := httptest.NewRecorder()
	app.handleTrips(rec, httptest.NewRequest(http.MethodDelete, "/api/trips", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}
