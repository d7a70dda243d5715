package eurailnet

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bluele/gcache"
	"github.com/gorilla/mux"
)

// App bundles the read-only network, the booking system, and the search
// response cache behind the HTTP surface. The graph never changes after
// ingestion, so cached responses cannot go stale within a process; the TTL
// only bounds memory.
type App struct {
	Network     *RailNetwork
	Bookings    *BookingSystem
	searchCache gcache.Cache
}

func NewApp(net *RailNetwork) *App {
	size := Config.Cache.Size
	if size <= 0 {
		size = 512
	}
	ttl := time.Duration(Config.Cache.TTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &App{
		Network:     net,
		Bookings:    NewBookingSystem(net),
		searchCache: gcache.New(size).LRU().Expiration(ttl).Build(),
	}
}

var server *http.Server

func StartServer(app *App) {
	r := mux.NewRouter()
	r.HandleFunc("/api/health", app.handleHealth)
	r.HandleFunc("/api/connections/search", app.handleSearch)
	r.HandleFunc("/api/routes/indirect", app.handleIndirect)
	r.HandleFunc("/api/cities/{name}", app.handleCity)
	r.HandleFunc("/api/trains/{name}", app.handleTrain)
	r.HandleFunc("/api/trips", app.handleTrips)

	addr := fmt.Sprintf(":%d", Config.Server.Port)
	server = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()
	log.Printf("rail service listening on %s", addr)
}

func HandleGracefulShutdown() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Printf("shutdown signal received, draining rail queries")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if server != nil {
		if err := server.Shutdown(ctx); err != nil {
			log.Printf("rail service shutdown error: %v", err)
		} else {
			log.Printf("rail service stopped")
		}
	}
}
