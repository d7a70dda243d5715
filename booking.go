package eurailnet

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Layover business rules. A change of trains must leave at least ten
// minutes; the upper bound depends on whether the onward departure falls in
// the daytime window [06:00, 19:00).
const (
	minLayoverMinutes      = 10
	maxDayLayoverMinutes   = 120
	maxNightLayoverMinutes = 30
	dayWindowStartHour     = 6
	dayWindowEndHour       = 19
)

func layoverLegal(prev, next *Connection) bool {
	wait := WaitMinutes(prev.ArrTime, next.DepTime)
	if wait < minLayoverMinutes {
		return false
	}
	h := next.DepTime.Hour()
	if h >= dayWindowStartHour && h < dayWindowEndHour {
		return wait <= maxDayLayoverMinutes
	}
	return wait <= maxNightLayoverMinutes
}

func validLayovers(conns []*Connection) bool {
	for i := 1; i < len(conns); i++ {
		if !layoverLegal(conns[i-1], conns[i]) {
			return false
		}
	}
	return true
}

// ValidateLayover reports whether every adjacent leg pair of the trip obeys
// the layover rules. A single-leg trip trivially passes.
func (t *Trip) ValidateLayover() bool { return validLayovers(t.Connections) }

// TravellerData is the booking input for one traveller.
type TravellerData struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Age       int    `json:"age" validate:"gte=0"`
	ID        string `json:"id" validate:"required"`
	SeatClass string `json:"seat_class" validate:"omitempty,oneof=first second"`
}

// BookingSystem owns the traveller/trip/reservation registries and the
// ticket counter for one rail network. Booking is a check-then-act sequence
// over shared registries, so every mutating operation is serialized behind
// one mutex; the underlying network stays read-only throughout.
type BookingSystem struct {
	mu           sync.Mutex
	network      *RailNetwork
	travellers   registry[Traveller]
	trips        []*Trip
	tripsByID    map[string]*Trip
	reservations []*Reservation
	nextTicketID int
	validate     *validator.Validate
}

func NewBookingSystem(net *RailNetwork) *BookingSystem {
	return &BookingSystem{
		network:      net,
		travellers:   newRegistry[Traveller](),
		tripsByID:    map[string]*Trip{},
		nextTicketID: 1,
		validate:     validator.New(),
	}
}

// BookTrip validates and books an itinerary of 1–3 connections for the
// given travellers. All validation runs before any registry mutation or
// ticket allocation: an abandoned booking never burns a ticket id.
// Travellers are deduplicated by external id; each call still creates a
// fresh reservation and ticket per traveller.
func (b *BookingSystem) BookTrip(conns []*Connection, travellers []TravellerData) (*Trip, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(conns) == 0 || len(conns) > 3 {
		return nil, &ValidationError{Msg: fmt.Sprintf("a trip takes 1 to 3 connections, got %d", len(conns))}
	}
	if len(travellers) == 0 {
		return nil, &ValidationError{Msg: "a trip needs at least one traveller"}
	}
	for _, c := range conns {
		if !b.network.Contains(c) {
			return nil, &NotFoundError{Msg: fmt.Sprintf("connection %s not found in rail network", c.RouteID)}
		}
	}
	for i := range travellers {
		if err := b.validate.Struct(travellers[i]); err != nil {
			return nil, &ValidationError{Msg: fmt.Sprintf("traveller %d: %v", i, err)}
		}
	}
	if len(conns) > 1 && !validLayovers(conns) {
		return nil, &ValidationError{Msg: "illegal layover between trip legs"}
	}

	trip := &Trip{
		ID:          uuid.NewString(),
		Connections: append([]*Connection(nil), conns...),
	}
	for _, td := range travellers {
		trav := b.getOrCreateTraveller(td)
		seat := td.SeatClass
		if seat == "" {
			seat = SeatSecond
		}
		ticket := &Ticket{ID: b.nextTicketID}
		b.nextTicketID++
		res := &Reservation{Traveller: trav, Trip: trip, Ticket: ticket, SeatClass: seat}
		ticket.Reservation = res
		trip.Reservations = append(trip.Reservations, res)
		trav.Reservations = append(trav.Reservations, res)
		b.reservations = append(b.reservations, res)
	}
	b.trips = append(b.trips, trip)
	b.tripsByID[trip.ID] = trip
	return trip, nil
}

func (b *BookingSystem) getOrCreateTraveller(td TravellerData) *Traveller {
	return b.travellers.getOrCreate(td.ID, func() *Traveller {
		return &Traveller{
			FirstName: td.FirstName,
			LastName:  td.LastName,
			Age:       td.Age,
			ID:        td.ID,
		}
	})
}

// GetOrCreateTraveller registers a traveller by external id, returning the
// existing record when one is already known.
func (b *BookingSystem) GetOrCreateTraveller(td TravellerData) *Traveller {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.getOrCreateTraveller(td)
}

// RestoreTrip reinserts a previously booked trip without re-running booking
// validation; already-validated historical data is trusted as-is. The
// ticket counter advances past every restored ticket id so fresh bookings
// stay strictly increasing.
func (b *BookingSystem) RestoreTrip(trip *Trip) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.tripsByID[trip.ID]; ok {
		return
	}
	b.trips = append(b.trips, trip)
	b.tripsByID[trip.ID] = trip
	for _, res := range trip.Reservations {
		b.reservations = append(b.reservations, res)
		if res.Ticket != nil && res.Ticket.ID >= b.nextTicketID {
			b.nextTicketID = res.Ticket.ID + 1
		}
	}
}

func (b *BookingSystem) Trips() []*Trip {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*Trip(nil), b.trips...)
}

func (b *BookingSystem) TripByID(id string) (*Trip, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.tripsByID[id]
	return t, ok
}

func (b *BookingSystem) Travellers() []*Traveller {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*Traveller(nil), b.travellers.items...)
}

func (b *BookingSystem) FindTravellerByID(id string) (*Traveller, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.travellers.lookup(id)
}

func (b *BookingSystem) FindTravellersByLastName(lastName string) []*Traveller {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []*Traveller{}
	for _, t := range b.travellers.items {
		if t.LastName == lastName {
			out = append(out, t)
		}
	}
	return out
}

// TripsByTravellerID returns every trip holding a reservation for the
// traveller with the given external id.
func (b *BookingSystem) TripsByTravellerID(id string) []*Trip {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tripsMatching(func(r *Reservation) bool { return r.Traveller.ID == id })
}

func (b *BookingSystem) TripsByTravellerLastName(lastName string) []*Trip {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tripsMatching(func(r *Reservation) bool { return r.Traveller.LastName == lastName })
}

func (b *BookingSystem) tripsMatching(pred func(*Reservation) bool) []*Trip {
	out := []*Trip{}
	for _, trip := range b.trips {
		for _, res := range trip.Reservations {
			if pred(res) {
				out = append(out, trip)
				break
			}
		}
	}
	return out
}
