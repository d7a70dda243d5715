package eurailnet

import (
	"encoding/json"
	"net/http"
	"strings"
)

type bookTripRequest struct {
	Connections []SegmentRef    `json:"connections"`
	Travellers  []TravellerData `json:"travellers"`
}

func (a *App) handleTrips(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		a.handleBookTrip(w, r)
	case http.MethodGet:
		a.handleListTrips(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (a *App) handleBookTrip(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	var req bookTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &FormatError{Msg: "invalid booking request body: " + err.Error()})
		return
	}
	conns := make([]*Connection, 0, len(req.Connections))
	for _, ref := range req.Connections {
		c, err := ref.Resolve(a.Network)
		if err != nil {
			writeError(w, err)
			return
		}
		conns = append(conns, c)
	}
	trip, err := a.Bookings.BookTrip(conns, req.Travellers)
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(snapshotTrip(trip))
}

func (a *App) handleListTrips(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	q := r.URL.Query()
	var trips []*Trip
	switch {
	case strings.TrimSpace(q.Get("travellerId")) != "":
		trips = a.Bookings.TripsByTravellerID(strings.TrimSpace(q.Get("travellerId")))
	case strings.TrimSpace(q.Get("lastName")) != "":
		trips = a.Bookings.TripsByTravellerLastName(strings.TrimSpace(q.Get("lastName")))
	default:
		trips = a.Bookings.Trips()
	}
	out := make([]TripSnapshot, len(trips))
	for i, t := range trips {
		out[i] = snapshotTrip(t)
	}
	_ = json.NewEncoder(w).Encode(out)
}
