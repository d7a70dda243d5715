package eurailnet

import (
	"fmt"
	"strings"
)

// registry is a keyed get-or-create collection that preserves insertion
// order. City, Train, and Traveller lookups all go through it.
type registry[T any] struct {
	byKey map[string]*T
	items []*T
}

func newRegistry[T any]() registry[T] {
	return registry[T]{byKey: map[string]*T{}}
}

func (r *registry[T]) getOrCreate(key string, create func() *T) *T {
	if v, ok := r.byKey[key]; ok {
		return v
	}
	v := create()
	r.byKey[key] = v
	r.items = append(r.items, v)
	return v
}

func (r *registry[T]) lookup(key string) (*T, bool) {
	v, ok := r.byKey[key]
	return v, ok
}

// RailNetwork owns the full rail graph: deduplicated cities and trains plus
// the authoritative connection list. It is built once during ingestion and
// read-only afterward, so it is safe for concurrent readers.
type RailNetwork struct {
	cities      registry[City]
	trains      registry[Train]
	connections []*Connection
}

func NewRailNetwork() *RailNetwork {
	return &RailNetwork{
		cities: newRegistry[City](),
		trains: newRegistry[Train](),
	}
}

// GetOrCreateCity returns the city registered under the normalized form of
// name, creating it with the first-seen display form when absent.
func (n *RailNetwork) GetOrCreateCity(name string) *City {
	return n.cities.getOrCreate(Normalize(name), func() *City {
		return &City{Name: strings.TrimSpace(name)}
	})
}

func (n *RailNetwork) GetOrCreateTrain(name string) *Train {
	return n.trains.getOrCreate(Normalize(name), func() *Train {
		return &Train{Name: strings.TrimSpace(name)}
	})
}

// FindCity looks a city up by normalized name without creating it.
func (n *RailNetwork) FindCity(name string) (*City, bool) {
	return n.cities.lookup(Normalize(name))
}

func (n *RailNetwork) FindTrain(name string) (*Train, bool) {
	return n.trains.lookup(Normalize(name))
}

func (n *RailNetwork) Cities() []*City            { return n.cities.items }
func (n *RailNetwork) Trains() []*Train           { return n.trains.items }
func (n *RailNetwork) Connections() []*Connection { return n.connections }

// AddConnection appends conn to the network list and wires the three
// back-references. All four appends happen together; there is no partial
// failure path since no I/O is involved.
func (n *RailNetwork) AddConnection(conn *Connection) error {
	if conn.DepCity == nil || conn.ArrCity == nil || conn.Train == nil {
		return &ValidationError{Msg: "connection missing city or train reference"}
	}
	if conn.DepCity == conn.ArrCity {
		return &ValidationError{Msg: fmt.Sprintf("departure equals arrival (%s)", conn.DepCity.Name)}
	}
	if conn.TripMinutes <= 0 {
		return &ValidationError{Msg: fmt.Sprintf("non-positive trip duration for route %s", conn.RouteID)}
	}
	n.connections = append(n.connections, conn)
	conn.DepCity.Departures = append(conn.DepCity.Departures, conn)
	conn.ArrCity.Arrivals = append(conn.ArrCity.Arrivals, conn)
	conn.Train.Connections = append(conn.Train.Connections, conn)
	return nil
}

// Contains reports whether conn is a connection of this network.
func (n *RailNetwork) Contains(conn *Connection) bool {
	for _, c := range n.connections {
		if c == conn {
			return true
		}
	}
	return false
}

// FindConnection re-identifies a connection by its persistence key: route id
// plus departure/arrival city, clock times, and train name.
func (n *RailNetwork) FindConnection(routeID, depCity, arrCity string, depTime, arrTime ClockTime, train string) (*Connection, bool) {
	for _, c := range n.connections {
		if c.RouteID == routeID &&
			c.DepCity.Name == depCity &&
			c.ArrCity.Name == arrCity &&
			c.DepTime == depTime &&
			c.ArrTime == arrTime &&
			c.Train.Name == train {
			return c, true
		}
	}
	return nil, false
}

// FindDirect returns the connections between two cities matched by
// normalized name equality, optionally restricted to a weekday (0=Monday..
// 6=Sunday; any negative value means no weekday filter).
func (n *RailNetwork) FindDirect(departCity, arrivalCity string, weekday int) []*Connection {
	depKey, arrKey := Normalize(departCity), Normalize(arrivalCity)
	out := []*Connection{}
	for _, c := range n.connections {
		if Normalize(c.DepCity.Name) != depKey || Normalize(c.ArrCity.Name) != arrKey {
			continue
		}
		if weekday >= 0 && !c.Days.Contains(weekday) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// CheckInvariants verifies the three-way back-reference consistency: the
// connection count must equal the per-city departure sum, the per-city
// arrival sum, and the per-train connection sum, and every connection must
// appear exactly once in each of its three back-reference lists.
func (n *RailNetwork) CheckInvariants() error {
	total := len(n.connections)
	deps, arrs, truns := 0, 0, 0
	for _, c := range n.cities.items {
		deps += len(c.Departures)
		arrs += len(c.Arrivals)
	}
	for _, t := range n.trains.items {
		truns += len(t.Connections)
	}
	if deps != total {
		return fmt.Errorf("sum(city.departures)=%d != connections=%d", deps, total)
	}
	if arrs != total {
		return fmt.Errorf("sum(city.arrivals)=%d != connections=%d", arrs, total)
	}
	if truns != total {
		return fmt.Errorf("sum(train.connections)=%d != connections=%d", truns, total)
	}
	for _, c := range n.connections {
		if countRefs(c.DepCity.Departures, c) != 1 {
			return fmt.Errorf("route %s not exactly once in %s departures", c.RouteID, c.DepCity.Name)
		}
		if countRefs(c.ArrCity.Arrivals, c) != 1 {
			return fmt.Errorf("route %s not exactly once in %s arrivals", c.RouteID, c.ArrCity.Name)
		}
		if countRefs(c.Train.Connections, c) != 1 {
			return fmt.Errorf("route %s not exactly once in train %s", c.RouteID, c.Train.Name)
		}
	}
	return nil
}

func countRefs(list []*Connection, conn *Connection) int {
	k := 0
	for _, c := range list {
		if c == conn {
			k++
		}
	}
	return k
}
