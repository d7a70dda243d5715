package eurailnet

import (
	"encoding/json"
	"fmt"
	"os"
)

// ConnectionSnapshot is the durable, fully resolved form of a connection:
// city and train references flattened to display names, the weekday set to
// a sorted slice, clock times to "HH:MM".
type ConnectionSnapshot struct {
	RouteID        string `json:"route_id"`
	DepartureCity  string `json:"departure_city"`
	ArrivalCity    string `json:"arrival_city"`
	DepartureTime  string `json:"departure_time"`
	ArrivalTime    string `json:"arrival_time"`
	TrainType      string `json:"train_type"`
	Days           []int  `json:"days"`
	FirstClassEUR  int    `json:"first_class_eur"`
	SecondClassEUR int    `json:"second_class_eur"`
	TripMinutes    int    `json:"trip_minutes"`
}

func snapshotConnection(c *Connection) ConnectionSnapshot {
	return ConnectionSnapshot{
		RouteID:        c.RouteID,
		DepartureCity:  c.DepCity.Name,
		ArrivalCity:    c.ArrCity.Name,
		DepartureTime:  c.DepTime.String(),
		ArrivalTime:    c.ArrTime.String(),
		TrainType:      c.Train.Name,
		Days:           c.Days.Days(),
		FirstClassEUR:  c.FirstClassEUR,
		SecondClassEUR: c.SecondClassEUR,
		TripMinutes:    c.TripMinutes,
	}
}

// ExportConnections emits the full connection set for durable storage.
func (n *RailNetwork) ExportConnections() []ConnectionSnapshot {
	out := make([]ConnectionSnapshot, len(n.connections))
	for i, c := range n.connections {
		out[i] = snapshotConnection(c)
	}
	return out
}

// SegmentRef re-identifies one booked connection across runs. Route ids are
// not guaranteed unique, so the whole tuple participates in the match.
type SegmentRef struct {
	RouteID       string `json:"route_id"`
	DepartureCity string `json:"departure_city"`
	ArrivalCity   string `json:"arrival_city"`
	DepartureTime string `json:"departure_time"`
	ArrivalTime   string `json:"arrival_time"`
	TrainType     string `json:"train_type"`
}

func segmentRef(c *Connection) SegmentRef {
	return SegmentRef{
		RouteID:       c.RouteID,
		DepartureCity: c.DepCity.Name,
		ArrivalCity:   c.ArrCity.Name,
		DepartureTime: c.DepTime.String(),
		ArrivalTime:   c.ArrTime.String(),
		TrainType:     c.Train.Name,
	}
}

// Resolve maps the reference back to a live connection of net.
func (r SegmentRef) Resolve(net *RailNetwork) (*Connection, error) {
	depTime, err := ParseTime(r.DepartureTime)
	if err != nil {
		return nil, err
	}
	arrTime, err := ParseTime(r.ArrivalTime)
	if err != nil {
		return nil, err
	}
	c, ok := net.FindConnection(r.RouteID, r.DepartureCity, r.ArrivalCity, depTime, arrTime, r.TrainType)
	if !ok {
		return nil, &NotFoundError{Msg: fmt.Sprintf("no connection %s %s→%s %s", r.RouteID, r.DepartureCity, r.ArrivalCity, r.DepartureTime)}
	}
	return c, nil
}

type ReservationSnapshot struct {
	TravellerID string `json:"traveller_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Age         int    `json:"age"`
	SeatClass   string `json:"seat_class"`
	TicketID    int    `json:"ticket_id"`
}

type TripSnapshot struct {
	ID           string                `json:"id"`
	Segments     []SegmentRef          `json:"segments"`
	Reservations []ReservationSnapshot `json:"reservations"`
}

func snapshotTrip(t *Trip) TripSnapshot {
	snap := TripSnapshot{ID: t.ID}
	for _, c := range t.Connections {
		snap.Segments = append(snap.Segments, segmentRef(c))
	}
	for _, res := range t.Reservations {
		snap.Reservations = append(snap.Reservations, ReservationSnapshot{
			TravellerID: res.Traveller.ID,
			FirstName:   res.Traveller.FirstName,
			LastName:    res.Traveller.LastName,
			Age:         res.Traveller.Age,
			SeatClass:   res.SeatClass,
			TicketID:    res.Ticket.ID,
		})
	}
	return snap
}

// ExportTrips emits every booked trip with its reservations.
func (b *BookingSystem) ExportTrips() []TripSnapshot {
	trips := b.Trips()
	out := make([]TripSnapshot, len(trips))
	for i, t := range trips {
		out[i] = snapshotTrip(t)
	}
	return out
}

// SaveTripSnapshot writes all booked trips to a JSON file.
func SaveTripSnapshot(path string, b *BookingSystem) error {
	data, err := json.MarshalIndent(b.ExportTrips(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadTripSnapshot restores previously booked trips from a JSON file,
// re-linking each segment to the live network by full-tuple match. Restored
// trips skip booking validation; the ticket counter advances past every
// restored ticket id. A trip id already present in the booking system is
// skipped whole, so loading the same snapshot twice leaves no trace.
func LoadTripSnapshot(path string, b *BookingSystem, net *RailNetwork) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var snaps []TripSnapshot
	if err := json.Unmarshal(data, &snaps); err != nil {
		return &FormatError{Msg: fmt.Sprintf("trip snapshot %s: %v", path, err)}
	}
	for _, snap := range snaps {
		if _, ok := b.TripByID(snap.ID); ok {
			continue
		}
		trip := &Trip{ID: snap.ID}
		for _, ref := range snap.Segments {
			c, err := ref.Resolve(net)
			if err != nil {
				return err
			}
			trip.Connections = append(trip.Connections, c)
		}
		for _, rs := range snap.Reservations {
			trav := b.GetOrCreateTraveller(TravellerData{
				FirstName: rs.FirstName,
				LastName:  rs.LastName,
				Age:       rs.Age,
				ID:        rs.TravellerID,
			})
			ticket := &Ticket{ID: rs.TicketID}
			res := &Reservation{Traveller: trav, Trip: trip, Ticket: ticket, SeatClass: rs.SeatClass}
			ticket.Reservation = res
			trip.Reservations = append(trip.Reservations, res)
			trav.Reservations = append(trav.Reservations, res)
		}
		b.RestoreTrip(trip)
	}
	return nil
}
