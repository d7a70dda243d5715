package eurailnet

// City is a node in the rail graph. Departures and Arrivals are maintained
// by RailNetwork.AddConnection and are append-only after construction.
type City struct {
	Name       string
	Departures []*Connection
	Arrivals   []*Connection
}

// Train is a train type (TGV, Nightjet, ...) with the connections it runs.
type Train struct {
	Name        string
	Connections []*Connection
}

// Connection is one scheduled run between two distinct cities. Immutable
// once ingested. RouteID is an external identifier and is not guaranteed
// unique: persistence re-identifies a connection by the full
// route/cities/times/train tuple.
type Connection struct {
	RouteID        string
	DepCity        *City
	ArrCity        *City
	DepTime        ClockTime
	ArrTime        ClockTime
	Days           DaySet
	FirstClassEUR  int
	SecondClassEUR int
	Train          *Train
	TripMinutes    int
}

// Route is a candidate multi-leg itinerary discovered by the indirect route
// finder. WaitTimes[i] is the layover between Segments[i] and Segments[i+1].
type Route struct {
	Segments     []*Connection
	WaitTimes    []int
	TotalMinutes int
}

// Trip is a booked itinerary of 1–3 connections. The connection list is
// immutable after booking; reservations are append-only.
type Trip struct {
	ID           string
	Connections  []*Connection
	Reservations []*Reservation
}

// Traveller is deduplicated across bookings by the external ID
// (passport or state id).
type Traveller struct {
	FirstName    string
	LastName     string
	Age          int
	ID           string
	Reservations []*Reservation
}

// Reservation links one traveller to one trip via one ticket.
type Reservation struct {
	Traveller *Traveller
	Trip      *Trip
	Ticket    *Ticket
	SeatClass string
}

// Ticket ids are allocated from a process-wide strictly increasing counter,
// never reused and never reset within a run.
type Ticket struct {
	ID          int
	Reservation *Reservation
}

const (
	SeatFirst  = "first"
	SeatSecond = "second"
)
