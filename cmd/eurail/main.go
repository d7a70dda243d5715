package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	eurailnet "github.com/transit-tools/eurailnet"
)

func main() {
	eurailnet.InitLogging()

	head := flag.Int("head", 5, "number of rows to preview")
	summary := flag.Bool("summary", false, "print a network summary")
	city := flag.String("city", "", "print departures/arrivals of a city")
	train := flag.String("train", "", "print connections of a train type")

	search := flag.Bool("search-connections", false, "search for direct connections")
	from := flag.String("from", "", "departure city (substring match)")
	to := flag.String("to", "", "arrival city (substring match)")
	trainType := flag.String("train-type", "", "train type (substring match)")
	minFirst := flag.Int("min-first-price", -1, "minimum first class price")
	maxFirst := flag.Int("max-first-price", -1, "maximum first class price")
	minSecond := flag.Int("min-second-price", -1, "minimum second class price")
	maxSecond := flag.Int("max-second-price", -1, "maximum second class price")
	depStart := flag.String("dep-time-start", "", "earliest departure time (HH:MM)")
	depEnd := flag.String("dep-time-end", "", "latest departure time (HH:MM)")
	arrStart := flag.String("arr-time-start", "", "earliest arrival time (HH:MM)")
	arrEnd := flag.String("arr-time-end", "", "latest arrival time (HH:MM)")
	minDuration := flag.Int("min-duration", -1, "minimum trip duration (minutes)")
	maxDuration := flag.Int("max-duration", -1, "maximum trip duration (minutes)")
	weekday := flag.Int("weekday", -1, "weekday (0=Monday, 6=Sunday)")
	sortBy := flag.String("sort-by", "dep_time", "sort key")
	order := flag.String("order", "asc", "sort order: asc or desc")

	book := flag.String("book", "", "book a trip: comma-separated route ids (1-3 legs)")
	traveller := flag.String("traveller", "", "traveller for -book: First,Last,Age,ID[,seat]")
	saveDB := flag.String("save-db", "", "persist the network to a sqlite database at this path")
	loadDB := flag.String("load-db", "", "restore booked trips from a sqlite database at this path")
	snapshot := flag.String("snapshot", "", "write booked trips to a JSON snapshot at this path")
	serve := flag.Bool("serve", false, "start the HTTP query service")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: eurail [flags] <connections.csv>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	net, err := eurailnet.LoadNetworkCSV(flag.Arg(0))
	if err != nil {
		log.Fatalf("loading network: %v", err)
	}
	if err := net.CheckInvariants(); err != nil {
		log.Fatalf("network invariants: %v", err)
	}

	if *saveDB != "" {
		store, err := eurailnet.OpenStore(*saveDB)
		if err != nil {
			log.Fatalf("opening database: %v", err)
		}
		defer store.Close()
		if err := store.Migrate(); err != nil {
			log.Fatalf("migrating database: %v", err)
		}
		if err := store.SaveNetwork(net); err != nil {
			log.Fatalf("saving network: %v", err)
		}
		log.Printf("network saved to %s", *saveDB)
	}

	bookings := eurailnet.NewBookingSystem(net)
	if *loadDB != "" {
		store, err := eurailnet.OpenStore(*loadDB)
		if err != nil {
			log.Fatalf("opening database: %v", err)
		}
		if err := store.LoadTrips(bookings, net); err != nil {
			store.Close()
			log.Fatalf("loading trips: %v", err)
		}
		store.Close()
		log.Printf("restored %d trip(s) from %s", len(bookings.Trips()), *loadDB)
	}

	if *book != "" {
		td, err := parseTraveller(*traveller)
		if err != nil {
			log.Fatalf("traveller flag: %v", err)
		}
		var conns []*eurailnet.Connection
		for _, id := range strings.Split(*book, ",") {
			c, ok := findByRouteID(net, strings.TrimSpace(id))
			if !ok {
				log.Fatalf("no connection with route id %q", id)
			}
			conns = append(conns, c)
		}
		trip, err := bookings.BookTrip(conns, []eurailnet.TravellerData{td})
		if err != nil {
			log.Fatalf("booking: %v", err)
		}
		fmt.Printf("Booked trip %s with %d leg(s), ticket #%d (%s class)\n",
			trip.ID, len(trip.Connections), trip.Reservations[0].Ticket.ID,
			trip.Reservations[0].SeatClass)
	}

	if *snapshot != "" {
		if err := eurailnet.SaveTripSnapshot(*snapshot, bookings); err != nil {
			log.Fatalf("writing snapshot: %v", err)
		}
		log.Printf("trip snapshot written to %s", *snapshot)
	}

	switch {
	case *serve:
		if err := eurailnet.LoadAppConfig(); err != nil {
			log.Printf("no config file, using defaults: %v", err)
			eurailnet.Config.Server.Port = 8316
		}
		app := eurailnet.NewApp(net)
		app.Bookings = bookings
		eurailnet.StartServer(app)
		eurailnet.HandleGracefulShutdown()
	case *search:
		params := eurailnet.SearchParams{
			DepartCity:  *from,
			ArrivalCity: *to,
			TrainType:   *trainType,
			SortBy:      eurailnet.SortKey(*sortBy),
			Descending:  *order == "desc",
		}
		params.MinFirstPrice = optInt(*minFirst)
		params.MaxFirstPrice = optInt(*maxFirst)
		params.MinSecondPrice = optInt(*minSecond)
		params.MaxSecondPrice = optInt(*maxSecond)
		params.MinDuration = optInt(*minDuration)
		params.MaxDuration = optInt(*maxDuration)
		params.Weekday = optInt(*weekday)
		params.MinDepTime = optTime(*depStart)
		params.MaxDepTime = optTime(*depEnd)
		params.MinArrTime = optTime(*arrStart)
		params.MaxArrTime = optTime(*arrEnd)

		conns, err := net.SearchConnections(params)
		if err != nil {
			log.Fatalf("search: %v", err)
		}
		if len(conns) > 0 {
			printConnections(conns, *sortBy, *order)
			return
		}
		fmt.Println("No direct connections found — searching for indirect routes...")
		fmt.Println()
		routes := net.FindIndirectRoutes(*from, *to, 2)
		routes = eurailnet.FilterRoutes(routes, params)
		if len(routes) == 0 {
			fmt.Println("No indirect routes found.")
			return
		}
		eurailnet.SortRoutesByTotal(routes)
		printRoutes(routes)
	case *summary:
		printSummary(net.Summary(*head))
	case *city != "":
		printCity(net, *city, *head)
	case *train != "":
		printTrain(net, *train, *head)
	default:
		fmt.Printf("Parsed %d connections, %d cities, %d trains\n\n",
			len(net.Connections()), len(net.Cities()), len(net.Trains()))
		for i, c := range net.Connections() {
			if i >= *head {
				break
			}
			fmt.Printf("%s: %s %s → %s %s (%d min) [%s]\n",
				c.RouteID, c.DepCity.Name, c.DepTime, c.ArrCity.Name, c.ArrTime,
				c.TripMinutes, c.Train.Name)
		}
	}
}

func parseTraveller(s string) (eurailnet.TravellerData, error) {
	parts := strings.Split(s, ",")
	if len(parts) < 4 || len(parts) > 5 {
		return eurailnet.TravellerData{}, fmt.Errorf("expected First,Last,Age,ID[,seat], got %q", s)
	}
	age, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return eurailnet.TravellerData{}, fmt.Errorf("age %q: %v", parts[2], err)
	}
	td := eurailnet.TravellerData{
		FirstName: strings.TrimSpace(parts[0]),
		LastName:  strings.TrimSpace(parts[1]),
		Age:       age,
		ID:        strings.TrimSpace(parts[3]),
	}
	if len(parts) == 5 {
		td.SeatClass = strings.TrimSpace(parts[4])
	}
	return td, nil
}

func findByRouteID(net *eurailnet.RailNetwork, id string) (*eurailnet.Connection, bool) {
	for _, c := range net.Connections() {
		if c.RouteID == id {
			return c, true
		}
	}
	return nil, false
}

func optInt(v int) *int {
	if v < 0 {
		return nil
	}
	return &v
}

func optTime(s string) *eurailnet.ClockTime {
	if s == "" {
		return nil
	}
	t, err := eurailnet.ParseTime(s)
	if err != nil {
		log.Fatalf("time flag: %v", err)
	}
	return &t
}

func printConnections(conns []*eurailnet.Connection, sortBy, order string) {
	fmt.Printf("Found %d connection(s), sorted by %s %s:\n\n", len(conns), sortBy, order)
	for _, c := range conns {
		fmt.Printf("  %s: %-12s %s → %-12s %s [%s] %d min, 1st %d€ / 2nd %d€, %s\n",
			c.RouteID, c.DepCity.Name, c.DepTime, c.ArrCity.Name, c.ArrTime,
			c.Train.Name, c.TripMinutes, c.FirstClassEUR, c.SecondClassEUR, c.Days)
	}
}

func printRoutes(routes []eurailnet.Route) {
	fmt.Printf("Found %d indirect route(s):\n\n", len(routes))
	for i, route := range routes {
		fmt.Printf("ROUTE #%d:\n", i+1)
		fmt.Printf("  Total Duration: %dh%02dm\n", route.TotalMinutes/60, route.TotalMinutes%60)
		for j, seg := range route.Segments {
			fmt.Printf("    %12s %s → %-15s %s [%s] (%d min)\n",
				seg.DepCity.Name, seg.DepTime, seg.ArrCity.Name, seg.ArrTime,
				seg.Train.Name, seg.TripMinutes)
			if j < len(route.WaitTimes) {
				fmt.Printf("      Time to change connection: %d min\n", route.WaitTimes[j])
			}
		}
		fmt.Println()
	}
}

func printSummary(s eurailnet.NetworkSummary) {
	fmt.Printf("Cities: %d | Trains: %d | Connections: %d\n\n", s.Cities, s.Trains, s.Connections)
	fmt.Println("Top departure cities:")
	for _, nc := range s.TopDepartures {
		fmt.Printf("  %-20s %d\n", nc.Name, nc.Count)
	}
	fmt.Println("Top arrival cities:")
	for _, nc := range s.TopArrivals {
		fmt.Printf("  %-20s %d\n", nc.Name, nc.Count)
	}
	fmt.Println("Top trains:")
	for _, nc := range s.TopTrains {
		fmt.Printf("  %-20s %d\n", nc.Name, nc.Count)
	}
}

func printCity(net *eurailnet.RailNetwork, name string, limit int) {
	city, ok := net.FindCity(name)
	if !ok {
		fmt.Printf("City %q not found\n", name)
		return
	}
	fmt.Printf("%s: %d departures, %d arrivals\n", city.Name, len(city.Departures), len(city.Arrivals))
	for i, c := range city.Departures {
		if i >= limit {
			break
		}
		fmt.Printf("  DEP %s: %s → %s (%d min) [%s]\n",
			c.RouteID, c.DepTime, c.ArrCity.Name, c.TripMinutes, c.Train.Name)
	}
	for i, c := range city.Arrivals {
		if i >= limit {
			break
		}
		fmt.Printf("  ARR %s: %s ← %s %s [%s]\n",
			c.RouteID, c.ArrCity.Name, c.DepCity.Name, c.ArrTime, c.Train.Name)
	}
}

func printTrain(net *eurailnet.RailNetwork, name string, limit int) {
	train, ok := net.FindTrain(name)
	if !ok {
		fmt.Printf("Train %q not found\n", name)
		return
	}
	fmt.Printf("%s: %d connections\n", train.Name, len(train.Connections))
	for i, c := range train.Connections {
		if i >= limit {
			break
		}
		fmt.Printf("  %s: %s %s → %s %s (%d min)\n",
			c.RouteID, c.DepCity.Name, c.DepTime, c.ArrCity.Name, c.ArrTime, c.TripMinutes)
	}
}
