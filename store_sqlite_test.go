package eurailnet

import (
	"errors"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(filepath.Join(t.TempDir(), "eurail.db"))
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	if err := store.Migrate(); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return store
}

func TestSaveNetworkIdempotent(t *testing.T) {
	net := newTestNetwork(t)
	store := openTestStore(t)

	if err := store.SaveNetwork(net); err != nil {
		t.Fatalf("SaveNetwork: %v", err)
	}
	// A second save matches every existing row instead of duplicating it.
	if err := store.SaveNetwork(net); err != nil {
		t.Fatalf("second SaveNetwork: %v", err)
	}

	var count int
	if err := store.db.QueryRow("SELECT COUNT(*) FROM Connection").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != len(net.Connections()) {
		t.Errorf("connection rows = %d, want %d", count, len(net.Connections()))
	}
	if err := store.db.QueryRow(
		"SELECT COUNT(*) FROM ConnectionDay cd JOIN Connection c ON c.id = cd.connectionId WHERE c.routeId = 'R003'",
	).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 7 {
		t.Errorf("R003 weekday rows = %d, want 7", count)
	}
}

func TestSaveTripRequiresNetwork(t *testing.T) {
	net := newTestNetwork(t)
	store := openTestStore(t)
	b := NewBookingSystem(net)

	trip, err := b.BookTrip([]*Connection{connByID(t, net, "R001")}, []TravellerData{alice()})
	if err != nil {
		t.Fatal(err)
	}
	err = store.SaveTrip(trip)
	var nferr *NotFoundError
	if !errors.As(err, &nferr) {
		t.Fatalf("saving a trip before the network: err = %v, want NotFoundError", err)
	}
}

func TestTripPersistenceRoundTrip(t *testing.T) {
	net := newTestNetwork(t)
	store := openTestStore(t)
	if err := store.SaveNetwork(net); err != nil {
		t.Fatal(err)
	}

	b := NewBookingSystem(net)
	conns := []*Connection{connByID(t, net, "R001")}
	travellers := []TravellerData{
		alice(),
		{FirstName: "Bruno", LastName: "Keller", Age: 41, ID: "T-101", SeatClass: SeatFirst},
	}
	booked, err := b.BookTrip(conns, travellers)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.SaveTrip(booked); err != nil {
		t.Fatalf("SaveTrip: %v", err)
	}

	// Rebuild everything into a fresh booking system.
	b2 := NewBookingSystem(net)
	if err := store.LoadTrips(b2, net); err != nil {
		t.Fatalf("LoadTrips: %v", err)
	}
	trips := b2.Trips()
	if len(trips) != 1 {
		t.Fatalf("restored trips = %d, want 1", len(trips))
	}
	got := trips[0]
	if got.ID != booked.ID {
		t.Errorf("trip id = %q, want %q", got.ID, booked.ID)
	}
	if len(got.Connections) != 1 || got.Connections[0] != conns[0] {
		t.Error("segments must re-link to live network connections")
	}
	if len(got.Reservations) != 2 {
		t.Fatalf("reservations = %d, want 2", len(got.Reservations))
	}
	if len(b2.Travellers()) != 2 {
		t.Errorf("travellers = %d, want 2", len(b2.Travellers()))
	}
	if trav, ok := b2.FindTravellerByID("T-100"); !ok || trav.FirstName != "Alice" {
		t.Error("restored traveller not retrievable by external id")
	}

	// Fresh bookings continue past the persisted ticket ids.
	next, err := b2.BookTrip(conns, []TravellerData{alice()})
	if err != nil {
		t.Fatal(err)
	}
	if id := next.Reservations[0].Ticket.ID; id != 3 {
		t.Errorf("next ticket id = %d, want 3", id)
	}
}

func TestLoadTripsTwice(t *testing.T) {
	net := newTestNetwork(t)
	store := openTestStore(t)
	if err := store.SaveNetwork(net); err != nil {
		t.Fatal(err)
	}
	b := NewBookingSystem(net)
	trip, err := b.BookTrip([]*Connection{connByID(t, net, "R001")}, []TravellerData{alice()})
	if err != nil {
		t.Fatal(err)
	}
	if err := store.SaveTrip(trip); err != nil {
		t.Fatal(err)
	}

	b2 := NewBookingSystem(net)
	for i := 0; i < 2; i++ {
		if err := store.LoadTrips(b2, net); err != nil {
			t.Fatalf("load %d: %v", i+1, err)
		}
	}
	if got := len(b2.Trips()); got != 1 {
		t.Fatalf("trips after double load = %d, want 1", got)
	}
	trav, ok := b2.FindTravellerByID("T-100")
	if !ok {
		t.Fatal("traveller not restored")
	}
	if got := len(trav.Reservations); got != 1 {
		t.Fatalf("traveller reservations after double load = %d, want 1", got)
	}
	if trav.Reservations[0].Trip != b2.Trips()[0] {
		t.Error("reservation must reference the registered trip")
	}
}

func TestSaveTripRewriteKeepsSegmentsUnique(t *testing.T) {
	net := newTestNetwork(t)
	store := openTestStore(t)
	if err := store.SaveNetwork(net); err != nil {
		t.Fatal(err)
	}
	b := NewBookingSystem(net)
	trip, err := b.BookTrip([]*Connection{
		connByID(t, net, "R001"),
		connByID(t, net, "R004"),
	}, []TravellerData{alice()})
	if err != nil {
		t.Fatal(err)
	}

	if err := store.SaveTrip(trip); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveTrip(trip); err != nil {
		t.Fatal(err)
	}
	var count int
	if err := store.db.QueryRow(
		"SELECT COUNT(*) FROM TripConnection WHERE tripId = ?", trip.ID).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("segment rows after two saves = %d, want 2", count)
	}
}
