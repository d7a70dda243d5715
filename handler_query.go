package eurailnet

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
)

func buildErrorPayload(msg string) []byte {
	type errBody struct {
		Error struct {
			Description string `json:"description"`
		} `json:"error"`
	}
	var e errBody
	e.Error.Description = msg
	b, _ := json.Marshal(e)
	return b
}

func statusForError(err error) int {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return http.StatusNotFound
	}
	var ve *ValidationError
	var fe *FormatError
	if errors.As(err, &ve) || errors.As(err, &fe) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	w.WriteHeader(statusForError(err))
	_, _ = w.Write(buildErrorPayload(err.Error()))
}

func queryInt(q url.Values, key string) (*int, error) {
	s := strings.TrimSpace(q.Get(key))
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, &FormatError{Msg: fmt.Sprintf("%s must be an integer, got %q", key, s)}
	}
	return &v, nil
}

func queryTime(q url.Values, key string) (*ClockTime, error) {
	s := strings.TrimSpace(q.Get(key))
	if s == "" {
		return nil, nil
	}
	t, err := ParseTime(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// parseSearchParams maps the query-string surface onto SearchParams.
func parseSearchParams(q url.Values) (SearchParams, error) {
	p := SearchParams{
		DepartCity:  strings.TrimSpace(q.Get("from")),
		ArrivalCity: strings.TrimSpace(q.Get("to")),
		TrainType:   strings.TrimSpace(q.Get("trainType")),
	}
	var err error
	if p.MinFirstPrice, err = queryInt(q, "minFirstPrice"); err != nil {
		return p, err
	}
	if p.MaxFirstPrice, err = queryInt(q, "maxFirstPrice"); err != nil {
		return p, err
	}
	if p.MinSecondPrice, err = queryInt(q, "minSecondPrice"); err != nil {
		return p, err
	}
	if p.MaxSecondPrice, err = queryInt(q, "maxSecondPrice"); err != nil {
		return p, err
	}
	if p.MinDepTime, err = queryTime(q, "depTimeStart"); err != nil {
		return p, err
	}
	if p.MaxDepTime, err = queryTime(q, "depTimeEnd"); err != nil {
		return p, err
	}
	if p.MinArrTime, err = queryTime(q, "arrTimeStart"); err != nil {
		return p, err
	}
	if p.MaxArrTime, err = queryTime(q, "arrTimeEnd"); err != nil {
		return p, err
	}
	if p.MinDuration, err = queryInt(q, "minDuration"); err != nil {
		return p, err
	}
	if p.MaxDuration, err = queryInt(q, "maxDuration"); err != nil {
		return p, err
	}
	if p.Weekday, err = queryInt(q, "weekday"); err != nil {
		return p, err
	}
	if p.Weekday != nil && (*p.Weekday < 0 || *p.Weekday > 6) {
		return p, &ValidationError{Msg: "weekday must be between 0 (Monday) and 6 (Sunday)"}
	}
	if s := strings.TrimSpace(q.Get("sortBy")); s != "" {
		p.SortBy = SortKey(s)
		if !validSortKey(p.SortBy) {
			return p, &ValidationError{Msg: fmt.Sprintf("unsupported sort key %q", s)}
		}
	}
	switch order := strings.ToLower(strings.TrimSpace(q.Get("order"))); order {
	case "", "asc":
	case "desc":
		p.Descending = true
	default:
		return p, &ValidationError{Msg: "order must be asc or desc"}
	}
	return p, nil
}

// cacheKey canonicalizes the query string so equivalent requests share one
// cache entry.
func cacheKey(prefix string, q url.Values) string {
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString(prefix)
	for _, k := range keys {
		b.WriteByte('|')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(strings.Join(q[k], ","))
	}
	return b.String()
}

type searchResponse struct {
	Count       int                  `json:"count"`
	Connections []ConnectionSnapshot `json:"connections"`
}

func (a *App) handleSearch(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	key := cacheKey("search", r.URL.Query())
	if buf, err := a.searchCache.Get(key); err == nil {
		_, _ = w.Write(buf.([]byte))
		return
	}
	p, err := parseSearchParams(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}
	conns, err := a.Network.SearchConnections(p)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := searchResponse{Count: len(conns), Connections: make([]ConnectionSnapshot, len(conns))}
	for i, c := range conns {
		resp.Connections[i] = snapshotConnection(c)
	}
	buf, _ := json.Marshal(resp)
	_ = a.searchCache.Set(key, buf)
	_, _ = w.Write(buf)
}

type routeView struct {
	Segments     []ConnectionSnapshot `json:"segments"`
	WaitTimes    []int                `json:"wait_times"`
	TotalMinutes int                  `json:"total_minutes"`
}

type indirectResponse struct {
	Count  int         `json:"count"`
	Routes []routeView `json:"routes"`
}

func (a *App) handleIndirect(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	q := r.URL.Query()
	from := strings.TrimSpace(q.Get("from"))
	to := strings.TrimSpace(q.Get("to"))
	if from == "" || to == "" {
		writeError(w, &ValidationError{Msg: "both from and to are required"})
		return
	}
	maxStops := 2
	if v, err := queryInt(q, "maxStops"); err != nil {
		writeError(w, err)
		return
	} else if v != nil {
		maxStops = *v
	}
	p, err := parseSearchParams(q)
	if err != nil {
		writeError(w, err)
		return
	}
	routes := a.Network.FindIndirectRoutes(from, to, maxStops)
	routes = FilterRoutes(routes, p)
	SortRoutesByTotal(routes)

	resp := indirectResponse{Count: len(routes), Routes: make([]routeView, len(routes))}
	for i, rt := range routes {
		view := routeView{WaitTimes: rt.WaitTimes, TotalMinutes: rt.TotalMinutes}
		for _, seg := range rt.Segments {
			view.Segments = append(view.Segments, snapshotConnection(seg))
		}
		resp.Routes[i] = view
	}
	_ = json.NewEncoder(w).Encode(resp)
}

type cityResponse struct {
	Name       string               `json:"name"`
	Departures []ConnectionSnapshot `json:"departures"`
	Arrivals   []ConnectionSnapshot `json:"arrivals"`
}

func (a *App) handleCity(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	name := mux.Vars(r)["name"]
	city, ok := a.Network.FindCity(name)
	if !ok {
		writeError(w, &NotFoundError{Msg: fmt.Sprintf("no such city: %s", name)})
		return
	}
	resp := cityResponse{Name: city.Name}
	for _, c := range city.Departures {
		resp.Departures = append(resp.Departures, snapshotConnection(c))
	}
	for _, c := range city.Arrivals {
		resp.Arrivals = append(resp.Arrivals, snapshotConnection(c))
	}
	_ = json.NewEncoder(w).Encode(resp)
}

type trainResponse struct {
	Name        string               `json:"name"`
	Connections []ConnectionSnapshot `json:"connections"`
}

func (a *App) handleTrain(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	name := mux.Vars(r)["name"]
	train, ok := a.Network.FindTrain(name)
	if !ok {
		writeError(w, &NotFoundError{Msg: fmt.Sprintf("no such train: %s", name)})
		return
	}
	resp := trainResponse{Name: train.Name}
	for _, c := range train.Connections {
		resp.Connections = append(resp.Connections, snapshotConnection(c))
	}
	_ = json.NewEncoder(w).Encode(resp)
}
