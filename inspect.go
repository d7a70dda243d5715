package eurailnet

import "sort"

type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// NetworkSummary is the at-a-glance view of an ingested network.
type NetworkSummary struct {
	Cities        int         `json:"cities"`
	Trains        int         `json:"trains"`
	Connections   int         `json:"connections"`
	TopDepartures []NameCount `json:"top_departures"`
	TopArrivals   []NameCount `json:"top_arrivals"`
	TopTrains     []NameCount `json:"top_trains"`
}

func topCounts(counts map[string]int, top int) []NameCount {
	out := make([]NameCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, NameCount{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if top > 0 && len(out) > top {
		out = out[:top]
	}
	return out
}

// Summary reports entity counts and the busiest cities and trains.
func (n *RailNetwork) Summary(top int) NetworkSummary {
	byDep := map[string]int{}
	byArr := map[string]int{}
	byTrain := map[string]int{}
	for _, c := range n.connections {
		byDep[c.DepCity.Name]++
		byArr[c.ArrCity.Name]++
		byTrain[c.Train.Name]++
	}
	return NetworkSummary{
		Cities:        len(n.cities.items),
		Trains:        len(n.trains.items),
		Connections:   len(n.connections),
		TopDepartures: topCounts(byDep, top),
		TopArrivals:   topCounts(byArr, top),
		TopTrains:     topCounts(byTrain, top),
	}
}
