package eurailnet

import "testing"

// The fixture mirrors the small reference timetable used throughout the
// query tests: four Paris→Lyon runs with distinct durations and fares, a
// return leg, and one Paris→Berlin run.
func fixtureRecords() []ConnectionRecord {
	return []ConnectionRecord{
		{"R001", "Paris", "Lyon", "08:00", "10:00", "TGV", "Mon|Tue|Wed", "100", "50"},
		{"R002", "Paris", "Lyon", "09:15", "10:30", "RegioExpress", "Daily", "80", "40"},
		{"R003", "Paris", "Lyon", "22:30", "06:10 (+1d)", "Nightjet", "Daily", "70", "30"},
		{"R004", "Lyon", "Paris", "11:00", "13:00", "TGV", "Mon|Tue", "100", "50"},
		{"R005", "Paris", "Berlin", "07:00", "13:00", "ICE", "Mon|Wed|Fri", "150", "90"},
		{"R006", "Paris", "Lyon", "08:00", "09:00", "InterCity", "Mon|Tue", "120", "60"},
	}
}

func newTestNetwork(t *testing.T) *RailNetwork {
	t.Helper()
	net, err := BuildNetwork(fixtureRecords())
	if err != nil {
		t.Fatalf("building fixture network: %v", err)
	}
	return net
}

func routeIDs(conns []*Connection) []string {
	ids := make([]string, len(conns))
	for i, c := range conns {
		ids[i] = c.RouteID
	}
	return ids
}

func routeIDSet(conns []*Connection) map[string]bool {
	set := map[string]bool{}
	for _, c := range conns {
		set[c.RouteID] = true
	}
	return set
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func intPtr(v int) *int { return &v }

func mustClock(t *testing.T, s string) ClockTime {
	t.Helper()
	ct, err := ParseTime(s)
	if err != nil {
		t.Fatalf("parsing %q: %v", s, err)
	}
	return ct
}
