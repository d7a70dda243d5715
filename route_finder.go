package eurailnet

import (
	"sort"
	"strings"
)

// FindIndirectRoutes enumerates 1-stop and 2-stop itineraries between two
// cities (normalized name equality, not substring). Layovers come from
// WaitMinutes, so an overnight change of trains is counted into the next
// day. Routes that revisit the origin or pass through the destination are
// excluded, and duplicates are collapsed by their route-id tuple, first
// occurrence winning. No route is a successful empty result, never an
// error. The returned order is unspecified; see SortRoutesByTotal.
func (n *RailNetwork) FindIndirectRoutes(fromCity, toCity string, maxStops int) []Route {
	fromKey, toKey := Normalize(fromCity), Normalize(toCity)
	if fromKey == "" || toKey == "" || fromKey == toKey {
		return []Route{}
	}

	adj := map[string][]*Connection{}
	for _, c := range n.connections {
		k := Normalize(c.DepCity.Name)
		adj[k] = append(adj[k], c)
	}

	routes := []Route{}
	seen := map[string]bool{}
	keep := func(segments []*Connection, waits []int) {
		ids := make([]string, len(segments))
		total := 0
		for i, s := range segments {
			ids[i] = s.RouteID
			total += s.TripMinutes
		}
		for _, w := range waits {
			total += w
		}
		key := strings.Join(ids, "\x00")
		if seen[key] {
			return
		}
		seen[key] = true
		routes = append(routes, Route{Segments: segments, WaitTimes: waits, TotalMinutes: total})
	}

	for _, c1 := range adj[fromKey] {
		mid := Normalize(c1.ArrCity.Name)
		if mid == fromKey || mid == toKey {
			continue
		}
		for _, c2 := range adj[mid] {
			if Normalize(c2.ArrCity.Name) != toKey {
				continue
			}
			keep([]*Connection{c1, c2}, []int{WaitMinutes(c1.ArrTime, c2.DepTime)})
		}
	}

	if maxStops >= 2 {
		for _, c1 := range adj[fromKey] {
			mid1 := Normalize(c1.ArrCity.Name)
			if mid1 == fromKey || mid1 == toKey {
				continue
			}
			for _, c2 := range adj[mid1] {
				mid2 := Normalize(c2.ArrCity.Name)
				if mid2 == fromKey || mid2 == toKey || mid2 == mid1 {
					continue
				}
				for _, c3 := range adj[mid2] {
					if Normalize(c3.ArrCity.Name) != toKey {
						continue
					}
					keep([]*Connection{c1, c2, c3}, []int{
						WaitMinutes(c1.ArrTime, c2.DepTime),
						WaitMinutes(c2.ArrTime, c3.DepTime),
					})
				}
			}
		}
	}

	return routes
}

// FilterRoutes applies the scalar filters of p to candidate routes: every
// segment must independently satisfy the train-type, price, and weekday
// filters, while the duration bounds apply to the route's aggregate
// TotalMinutes.
func FilterRoutes(routes []Route, p SearchParams) []Route {
	seg := SearchParams{
		TrainType:      p.TrainType,
		MinFirstPrice:  p.MinFirstPrice,
		MaxFirstPrice:  p.MaxFirstPrice,
		MinSecondPrice: p.MinSecondPrice,
		MaxSecondPrice: p.MaxSecondPrice,
		Weekday:        p.Weekday,
	}
	out := []Route{}
	for _, r := range routes {
		if p.MinDuration != nil && r.TotalMinutes < *p.MinDuration {
			continue
		}
		if p.MaxDuration != nil && r.TotalMinutes > *p.MaxDuration {
			continue
		}
		ok := true
		for _, s := range r.Segments {
			if !seg.matches(s) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, r)
		}
	}
	return out
}

// SortRoutesByTotal orders candidate routes by total travel time for
// presentation, breaking ties on the route-id tuple.
func SortRoutesByTotal(routes []Route) {
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].TotalMinutes != routes[j].TotalMinutes {
			return routes[i].TotalMinutes < routes[j].TotalMinutes
		}
		return routeIDTuple(routes[i]) < routeIDTuple(routes[j])
	})
}

func routeIDTuple(r Route) string {
	ids := make([]string, len(r.Segments))
	for i, s := range r.Segments {
		ids[i] = s.RouteID
	}
	return strings.Join(ids, "\x00")
}
