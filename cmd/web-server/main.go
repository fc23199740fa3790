// Flight-me web server
// Polls the OpenSky Network for aircraft around a configured location and
// serves the flight board over REST and WebSocket endpoints.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/thiagohernandez/flight-me/internal/airports"
	"github.com/thiagohernandez/flight-me/internal/flights"
	"github.com/thiagohernandez/flight-me/internal/locations"
	"github.com/thiagohernandez/flight-me/internal/observability"
	"github.com/thiagohernandez/flight-me/pkg/config"
	"github.com/thiagohernandez/flight-me/pkg/opensky"
)

var (
	configPath = flag.String("config", "configs/config.json", "Path to configuration file")
	port       = flag.String("port", "", "HTTP server port (overrides config)")
)

// Server holds the HTTP server and its dependencies
type Server struct {
	router      *chi.Mux
	cfg         *config.Config
	logger      *slog.Logger
	client      *opensky.Client
	cookieStore *opensky.CookieStore
	service     *flights.Service
	poller      *flights.Poller
	routes      *flights.RouteResolver
	enricher    *flights.Enricher
	started     time.Time

	// mu guards the poller's current target, which the location
	// endpoint can change at runtime
	mu         sync.RWMutex
	locationID string
	radiusKm   float64
}

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *port != "" {
		cfg.Server.Port = *port
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, err := newServer(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}

	go srv.poller.Run(ctx)

	httpServer := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      srv.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening",
			"addr", httpServer.Addr,
			"location", cfg.Poll.LocationID,
			"radius_km", cfg.Poll.RadiusKm)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// newServer wires the poll pipeline and the HTTP routes.
func newServer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	store, cookieStore, err := buildCredentialStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	tokens := opensky.NewTokenClient(opensky.TokenClientConfig{
		ClientID:     cfg.OpenSky.ClientID,
		ClientSecret: cfg.OpenSky.ClientSecret,
		TokenURL:     cfg.OpenSky.TokenURL,
		Store:        store,
	})

	client := opensky.NewClient(opensky.ClientConfig{
		BaseURL:           cfg.OpenSky.BaseURL,
		Tokens:            tokens,
		RequestsPerSecond: cfg.OpenSky.RequestsPerSecond,
	})

	index, err := airports.Load(cfg.Data.AirportsPath)
	if err != nil {
		// Routes degrade to "Unknown City"; the board still works.
		logger.Warn("airports dataset unavailable", "path", cfg.Data.AirportsPath, "error", err)
		index = airports.NewIndex(nil)
	}

	loc, ok := locations.ByID(cfg.Poll.LocationID)
	if !ok {
		return nil, fmt.Errorf("unknown location %q", cfg.Poll.LocationID)
	}

	enricher := flights.NewEnricher(client, time.Duration(cfg.Poll.LookupTimeoutSeconds)*time.Second)
	service := flights.NewService(client, enricher, logger)
	poller := flights.NewPoller(service, loc.Point(), cfg.Poll.RadiusKm,
		time.Duration(cfg.Poll.IntervalSeconds)*time.Second, logger)

	srv := &Server{
		router:      chi.NewRouter(),
		cfg:         cfg,
		logger:      logger,
		client:      client,
		cookieStore: cookieStore,
		service:     service,
		poller:      poller,
		routes:      flights.NewRouteResolver(client, index),
		enricher:    enricher,
		started:     time.Now(),
		locationID:  cfg.Poll.LocationID,
		radiusKm:    cfg.Poll.RadiusKm,
	}
	srv.setupRoutes()
	return srv, nil
}

// buildCredentialStore returns the configured token store. The cookie
// store is returned separately: it only works inside a request scope, so
// the background poller falls back to process memory alongside it.
func buildCredentialStore(ctx context.Context, cfg *config.Config) (opensky.CredentialStore, *opensky.CookieStore, error) {
	switch cfg.OpenSky.CredentialStore {
	case "redis":
		store, err := opensky.NewRedisStore(ctx, cfg.OpenSky.RedisAddr, 0)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting credential store: %w", err)
		}
		return store, nil, nil
	case "cookie":
		cs := opensky.NewCookieStore(cfg.OpenSky.CookieSecret, !cfg.Debug)
		return opensky.NewMemoryStore(), cs, nil
	default:
		return opensky.NewMemoryStore(), nil, nil
	}
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	r := s.router

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Compress(5))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/flights", s.handleGetFlights)
		r.Get("/aircraft/{icao24}", s.handleGetAircraft)
		r.Get("/flight-route/{icao24}", s.handleGetFlightRoute)
		r.Get("/locations", s.handleGetLocations)
		r.Post("/location", s.handleSetLocation)
		r.Get("/ws", s.handleWebSocket)
	})

	r.Get("/healthz", s.handleHealthz)
	r.Handle("/metrics", promhttp.Handler())
}
