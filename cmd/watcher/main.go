package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sharktamer/gtsnotifier/pkg/app/httpserver"
	"github.com/sharktamer/gtsnotifier/pkg/config"
	"github.com/sharktamer/gtsnotifier/pkg/gts"
	"github.com/sharktamer/gtsnotifier/pkg/notify"
	"github.com/sharktamer/gtsnotifier/pkg/pgutil"
	"github.com/sharktamer/gtsnotifier/pkg/reconciler"
	"github.com/sharktamer/gtsnotifier/pkg/registration"
	"github.com/sharktamer/gtsnotifier/pkg/watchstore"
)

var (
	configPath = flag.String("config", "config.yaml", "Path to configuration file")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting GTS trade watcher")

	// Initialize database
	db, err := pgutil.ConnectDB(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	logger.Info("Database connection established")

	store := watchstore.NewStore(db)
	gtsClient := gts.NewClient(&cfg.GTS, logger)
	registry := notify.NewRegistry(
		notify.NewPushoverClient(&cfg.Pushover, logger),
		notify.NewEmailSender(&cfg.Email, logger),
	)

	// Registration service with logging decorator
	regService := registration.NewLog(
		registration.NewService(store, gtsClient, registry, &cfg.Registration, logger),
		logger,
	)

	// Reconciliation engine
	engine := reconciler.New(store, gtsClient, registry, &cfg.Reconciler, logger)
	engine.StartPeriodic(cfg.Reconciler.Interval)
	defer engine.Stop()

	// Setup HTTP server for API and metrics
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Health check endpoint (liveness)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Readiness endpoint - the watcher is ready once the database answers
	r.Get("/ready", func(w http.ResponseWriter, req *http.Request) {
		if err := db.PingContext(req.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("NOT_READY"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("READY"))
	})

	// Metrics endpoint
	if cfg.Monitoring.Enabled {
		r.Handle("/metrics", promhttp.Handler())
		logger.Info("Metrics enabled")
	}

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		registration.RegisterRoutes(r, regService, logger)
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Serve until SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := httpserver.ServeAndWait(ctx, logger, srv, cfg.Shutdown.Timeout); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}

	logger.Info("Watcher stopped")
}
