package eurailnet

import "testing"

func onestopRecords() []ConnectionRecord {
	return []ConnectionRecord{
		{"R101", "Amsterdam", "Brussels", "08:00", "10:00", "Thalys", "Daily", "60", "30"},
		{"R102", "Brussels", "Cologne", "11:00", "13:00", "ICE", "Daily", "70", "35"},
	}
}

func TestFindIndirectOneStop(t *testing.T) {
	net, err := BuildNetwork(onestopRecords())
	if err != nil {
		t.Fatal(err)
	}
	if direct := net.FindDirect("Amsterdam", "Cologne", -1); len(direct) != 0 {
		t.Fatalf("no direct edge expected, got %v", routeIDs(direct))
	}
	routes := net.FindIndirectRoutes("Amsterdam", "Cologne", 2)
	if len(routes) != 1 {
		t.Fatalf("route count = %d, want 1", len(routes))
	}
	r := routes[0]
	if len(r.Segments) != 2 || r.Segments[0].RouteID != "R101" || r.Segments[1].RouteID != "R102" {
		t.Fatalf("segments = %v", routeIDs(r.Segments))
	}
	if len(r.WaitTimes) != 1 || r.WaitTimes[0] != 60 {
		t.Fatalf("wait times = %v, want [60]", r.WaitTimes)
	}
	want := r.Segments[0].TripMinutes + r.Segments[1].TripMinutes + r.WaitTimes[0]
	if r.TotalMinutes != want {
		t.Errorf("total = %d, want %d", r.TotalMinutes, want)
	}
}

func TestFindIndirectTwoStop(t *testing.T) {
	records := append(onestopRecords(),
		ConnectionRecord{"R103", "Cologne", "Frankfurt", "14:00", "15:10", "ICE", "Daily", "50", "25"},
	)
	net, err := BuildNetwork(records)
	if err != nil {
		t.Fatal(err)
	}
	routes := net.FindIndirectRoutes("Amsterdam", "Frankfurt", 2)
	if len(routes) != 1 {
		t.Fatalf("route count = %d, want 1", len(routes))
	}
	r := routes[0]
	if len(r.Segments) != 3 || len(r.WaitTimes) != 2 {
		t.Fatalf("segments=%v waits=%v", routeIDs(r.Segments), r.WaitTimes)
	}
	// 120 + 120 + 70 travel plus 60 + 60 waiting.
	if r.TotalMinutes != 430 {
		t.Errorf("total = %d, want 430", r.TotalMinutes)
	}

	// With maxStops=1 the two-stop itinerary disappears.
	if routes := net.FindIndirectRoutes("Amsterdam", "Frankfurt", 1); len(routes) != 0 {
		t.Errorf("maxStops=1 must not enumerate two-stop routes, got %d", len(routes))
	}
}

func TestFindIndirectOvernightWait(t *testing.T) {
	net, err := BuildNetwork([]ConnectionRecord{
		{"R111", "Vienna", "Munich", "18:00", "22:00", "Railjet", "Daily", "80", "40"},
		{"R112", "Munich", "Paris", "06:30", "12:30", "TGV", "Daily", "120", "60"},
	})
	if err != nil {
		t.Fatal(err)
	}
	routes := net.FindIndirectRoutes("Vienna", "Paris", 2)
	if len(routes) != 1 {
		t.Fatalf("route count = %d, want 1", len(routes))
	}
	// 22:00 arrival to 06:30 departure crosses midnight: 510 minutes.
	if routes[0].WaitTimes[0] != 510 {
		t.Errorf("overnight wait = %d, want 510", routes[0].WaitTimes[0])
	}
}

func TestFindIndirectExcludesOriginRevisit(t *testing.T) {
	net, err := BuildNetwork([]ConnectionRecord{
		{"R121", "A", "B", "08:00", "09:00", "RE", "Daily", "10", "5"},
		{"R122", "B", "A", "09:30", "10:30", "RE", "Daily", "10", "5"},
		{"R123", "A", "C", "11:00", "12:00", "RE", "Daily", "10", "5"},
		{"R124", "B", "C", "09:30", "10:30", "RE", "Daily", "10", "5"},
	})
	if err != nil {
		t.Fatal(err)
	}
	routes := net.FindIndirectRoutes("A", "C", 2)
	for _, r := range routes {
		for _, seg := range r.Segments {
			if Normalize(seg.ArrCity.Name) == "a" {
				t.Errorf("route %v revisits the origin", routeIDs(r.Segments))
			}
		}
	}
	// Only A→B→C survives.
	if len(routes) != 1 || len(routes[0].Segments) != 2 {
		t.Fatalf("routes = %d, want exactly the one-stop itinerary", len(routes))
	}
}

func TestFindIndirectDeduplicatesByRouteIDTuple(t *testing.T) {
	// The same route-id tuple can only appear once; first occurrence wins.
	net, err := BuildNetwork(append(onestopRecords(), onestopRecords()...))
	if err != nil {
		t.Fatal(err)
	}
	routes := net.FindIndirectRoutes("Amsterdam", "Cologne", 2)
	seen := map[string]bool{}
	for _, r := range routes {
		key := routeIDTuple(r)
		if seen[key] {
			t.Fatalf("duplicate route tuple %q", key)
		}
		seen[key] = true
	}
}

func TestFindIndirectNoRouteIsEmpty(t *testing.T) {
	net := newTestNetwork(t)
	if routes := net.FindIndirectRoutes("Berlin", "Lyon", 2); len(routes) != 0 {
		t.Errorf("unreachable pair must yield empty result, got %d routes", len(routes))
	}
	if routes := net.FindIndirectRoutes("Paris", "Paris", 2); len(routes) != 0 {
		t.Errorf("identical endpoints must yield empty result, got %d", len(routes))
	}
}

func TestFilterRoutes(t *testing.T) {
	net, err := BuildNetwork(onestopRecords())
	if err != nil {
		t.Fatal(err)
	}
	routes := net.FindIndirectRoutes("Amsterdam", "Cologne", 2)

	// Every segment must satisfy the price bound independently.
	if got := FilterRoutes(routes, SearchParams{MaxFirstPrice: intPtr(65)}); len(got) != 0 {
		t.Errorf("price filter must reject the 70€ leg, kept %d routes", len(got))
	}
	if got := FilterRoutes(routes, SearchParams{MaxFirstPrice: intPtr(70)}); len(got) != 1 {
		t.Errorf("inclusive price bound must keep the route, kept %d", len(got))
	}
	// Duration bounds apply to the aggregate.
	if got := FilterRoutes(routes, SearchParams{MaxDuration: intPtr(299)}); len(got) != 0 {
		t.Errorf("total of 300 must be rejected by max 299, kept %d", len(got))
	}
	if got := FilterRoutes(routes, SearchParams{MaxDuration: intPtr(300)}); len(got) != 1 {
		t.Errorf("total of 300 must pass max 300, kept %d", len(got))
	}
}

func TestSortRoutesByTotal(t *testing.T) {
	net, err := BuildNetwork([]ConnectionRecord{
		{"R131", "A", "B", "08:00", "09:00", "RE", "Daily", "10", "5"},
		{"R132", "B", "C", "09:30", "10:30", "RE", "Daily", "10", "5"},
		{"R133", "A", "B", "07:00", "08:00", "RE", "Daily", "10", "5"},
	})
	if err != nil {
		t.Fatal(err)
	}
	routes := net.FindIndirectRoutes("A", "C", 2)
	SortRoutesByTotal(routes)
	for i := 1; i < len(routes); i++ {
		if routes[i-1].TotalMinutes > routes[i].TotalMinutes {
			t.Fatal("routes not ordered by total minutes")
		}
	}
}
