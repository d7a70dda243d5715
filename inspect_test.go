package eurailnet

import "testing"

func TestNetworkSummary(t *testing.T) {
	net := newTestNetwork(t)
	s := net.Summary(2)

	if s.Cities != 3 || s.Trains != 5 || s.Connections != 6 {
		t.Fatalf("counts = %d cities / %d trains / %d connections", s.Cities, s.Trains, s.Connections)
	}
	if len(s.TopDepartures) != 2 {
		t.Fatalf("top departures = %v", s.TopDepartures)
	}
	if s.TopDepartures[0].Name != "Paris" || s.TopDepartures[0].Count != 5 {
		t.Errorf("busiest departure = %+v, want Paris with 5", s.TopDepartures[0])
	}
	if s.TopArrivals[0].Name != "Lyon" || s.TopArrivals[0].Count != 4 {
		t.Errorf("busiest arrival = %+v, want Lyon with 4", s.TopArrivals[0])
	}
	// TGV runs twice; every other train once, ties broken by name.
	if s.TopTrains[0].Name != "TGV" || s.TopTrains[0].Count != 2 {
		t.Errorf("busiest train = %+v, want TGV with 2", s.TopTrains[0])
	}
}

func TestTopCountsTieBreak(t *testing.T) {
	got := topCounts(map[string]int{"b": 1, "a": 1, "c": 2}, 0)
	if got[0].Name != "c" || got[1].Name != "a" || got[2].Name != "b" {
		t.Errorf("order = %v", got)
	}
}
