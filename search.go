package eurailnet

import (
	"fmt"
	"sort"
	"strings"
)

// SortKey selects the primary ordering of search results. Every key carries
// a deterministic tie-break chain ending in the route id so orderings are
// reproducible.
type SortKey string

const (
	SortDepTime        SortKey = "dep_time"
	SortArrTime        SortKey = "arr_time"
	SortTripMinutes    SortKey = "trip_minutes"
	SortFirstClassEUR  SortKey = "first_class_eur"
	SortSecondClassEUR SortKey = "second_class_eur"
	SortDepCity        SortKey = "dep_city"
	SortArrCity        SortKey = "arr_city"
	SortTrainName      SortKey = "train_name"
)

// SearchParams holds the optional, conjunctive filters of a direct
// connection search. String filters match by normalized substring
// containment; numeric and time bounds are inclusive; a nil bound leaves
// that dimension unconstrained. The zero value matches everything, sorted
// by departure time ascending.
type SearchParams struct {
	DepartCity  string
	ArrivalCity string
	TrainType   string

	MinFirstPrice  *int
	MaxFirstPrice  *int
	MinSecondPrice *int
	MaxSecondPrice *int

	MinDepTime *ClockTime
	MaxDepTime *ClockTime
	MinArrTime *ClockTime
	MaxArrTime *ClockTime

	MinDuration *int
	MaxDuration *int

	Weekday *int

	SortBy     SortKey
	Descending bool
}

func (p *SearchParams) matches(c *Connection) bool {
	if p.DepartCity != "" && !strings.Contains(Normalize(c.DepCity.Name), Normalize(p.DepartCity)) {
		return false
	}
	if p.ArrivalCity != "" && !strings.Contains(Normalize(c.ArrCity.Name), Normalize(p.ArrivalCity)) {
		return false
	}
	if p.TrainType != "" && !strings.Contains(Normalize(c.Train.Name), Normalize(p.TrainType)) {
		return false
	}
	if p.MinFirstPrice != nil && c.FirstClassEUR < *p.MinFirstPrice {
		return false
	}
	if p.MaxFirstPrice != nil && c.FirstClassEUR > *p.MaxFirstPrice {
		return false
	}
	if p.MinSecondPrice != nil && c.SecondClassEUR < *p.MinSecondPrice {
		return false
	}
	if p.MaxSecondPrice != nil && c.SecondClassEUR > *p.MaxSecondPrice {
		return false
	}
	if p.MinDepTime != nil && c.DepTime < *p.MinDepTime {
		return false
	}
	if p.MaxDepTime != nil && c.DepTime > *p.MaxDepTime {
		return false
	}
	if p.MinArrTime != nil && c.ArrTime < *p.MinArrTime {
		return false
	}
	if p.MaxArrTime != nil && c.ArrTime > *p.MaxArrTime {
		return false
	}
	if p.MinDuration != nil && c.TripMinutes < *p.MinDuration {
		return false
	}
	if p.MaxDuration != nil && c.TripMinutes > *p.MaxDuration {
		return false
	}
	if p.Weekday != nil && !c.Days.Contains(*p.Weekday) {
		return false
	}
	return true
}

// chain returns the first non-zero comparison in the tie-break sequence.
func chain(cmps ...int) int {
	for _, c := range cmps {
		if c != 0 {
			return c
		}
	}
	return 0
}

func compareBy(key SortKey, a, b *Connection) int {
	switch key {
	case SortDepTime:
		return chain(int(a.DepTime-b.DepTime), int(a.ArrTime-b.ArrTime), strings.Compare(a.RouteID, b.RouteID))
	case SortArrTime:
		return chain(int(a.ArrTime-b.ArrTime), int(a.DepTime-b.DepTime), strings.Compare(a.RouteID, b.RouteID))
	case SortTripMinutes:
		return chain(a.TripMinutes-b.TripMinutes, int(a.DepTime-b.DepTime), strings.Compare(a.RouteID, b.RouteID))
	case SortFirstClassEUR:
		return chain(a.FirstClassEUR-b.FirstClassEUR, int(a.DepTime-b.DepTime), strings.Compare(a.RouteID, b.RouteID))
	case SortSecondClassEUR:
		return chain(a.SecondClassEUR-b.SecondClassEUR, int(a.DepTime-b.DepTime), strings.Compare(a.RouteID, b.RouteID))
	case SortDepCity:
		return chain(strings.Compare(strings.ToLower(a.DepCity.Name), strings.ToLower(b.DepCity.Name)),
			int(a.DepTime-b.DepTime), strings.Compare(a.RouteID, b.RouteID))
	case SortArrCity:
		return chain(strings.Compare(strings.ToLower(a.ArrCity.Name), strings.ToLower(b.ArrCity.Name)),
			int(a.DepTime-b.DepTime), strings.Compare(a.RouteID, b.RouteID))
	case SortTrainName:
		return chain(strings.Compare(strings.ToLower(a.Train.Name), strings.ToLower(b.Train.Name)),
			int(a.DepTime-b.DepTime), strings.Compare(a.RouteID, b.RouteID))
	}
	return 0
}

func validSortKey(key SortKey) bool {
	switch key {
	case SortDepTime, SortArrTime, SortTripMinutes, SortFirstClassEUR,
		SortSecondClassEUR, SortDepCity, SortArrCity, SortTrainName:
		return true
	}
	return false
}

// SearchConnections filters the network's direct connections with the
// conjunction of all present filters and orders the result. Descending
// negates the whole comparison, tie-breaks included, so a descending sort
// is the exact reverse of its ascending counterpart. No match yields an
// empty slice, not an error.
func (n *RailNetwork) SearchConnections(p SearchParams) ([]*Connection, error) {
	key := p.SortBy
	if key == "" {
		key = SortDepTime
	}
	if !validSortKey(key) {
		return nil, &ValidationError{Msg: fmt.Sprintf("unsupported sort key %q", p.SortBy)}
	}
	results := []*Connection{}
	for _, c := range n.connections {
		if p.matches(c) {
			results = append(results, c)
		}
	}
	sort.Slice(results, func(i, j int) bool {
		cmp := compareBy(key, results[i], results[j])
		if p.Descending {
			return cmp > 0
		}
		return cmp < 0
	})
	return results, nil
}
