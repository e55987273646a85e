package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"evote-api/internal/config"
	"evote-api/internal/container"
	"evote-api/internal/handler"
	"evote-api/internal/middleware"
	"evote-api/internal/repository"
	"evote-api/internal/service"
	"evote-api/pkg/database"
	"evote-api/pkg/logger"
	"evote-api/pkg/redis"
)

// Resources holds all resources that need cleanup
type Resources struct {
	db          *database.PostgresDB
	redisClient *redis.Client
	server      *http.Server
	log         *logger.Logger
	mu          sync.Mutex
	closed      bool
}

// Cleanup gracefully closes all resources
func (r *Resources) Cleanup(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	var errs []error

	r.log.Info("Starting graceful shutdown...")

	// Stop accepting new requests first
	if r.server != nil {
		if err := r.server.Shutdown(ctx); err != nil {
			r.log.WithError(err).Error("Failed to shutdown HTTP server")
			errs = append(errs, fmt.Errorf("HTTP server shutdown: %w", err))
		} else {
			r.log.Info("HTTP server shutdown complete")
		}
	}

	if r.redisClient != nil {
		if err := r.redisClient.Close(); err != nil {
			r.log.WithError(err).Error("Failed to close Redis connection")
			errs = append(errs, fmt.Errorf("Redis close: %w", err))
		} else {
			r.log.Info("Redis connection closed")
		}
	}

	if r.db != nil {
		r.db.Close()
		r.log.Info("Database connection pool closed")
	}

	if len(errs) > 0 {
		return fmt.Errorf("cleanup completed with %d errors: %v", len(errs), errs)
	}

	r.log.Info("Graceful shutdown completed successfully")
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.WithFields(map[string]interface{}{
		"port":        cfg.Port,
		"log_level":   cfg.LogLevel,
		"environment": cfg.Environment,
	}).Info("Starting evote-api server")

	deps, err := container.New(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create container")
	}

	ctx := context.Background()
	db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}

	redisClient := deps.GetRedisClient()

	// Repositories and services
	electionRepo := repository.NewElectionRepository(db)
	ballotRepo := repository.NewBallotRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	votingService := service.NewVotingService(electionRepo, ballotRepo, auditRepo, deps.GetNotifier(), redisClient, log.Logger)
	resultsService := service.NewResultsService(electionRepo, ballotRepo, redisClient, log.Logger)
	electionService := service.NewElectionService(electionRepo, auditRepo, redisClient, log.Logger)

	router := setupRouter(deps, db, votingService, resultsService, electionService)

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   60 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	resources := &Resources{
		db:          db,
		redisClient: redisClient,
		server:      server,
		log:         log,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)

	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := resources.Cleanup(cleanupCtx); err != nil {
			log.WithError(err).Error("Cleanup completed with errors")
		}
	}()

	serverErrChan := make(chan error, 1)
	go func() {
		log.Info("Server starting on port " + cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("Server error occurred")
			serverErrChan <- err
		}
	}()

	select {
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("Received shutdown signal")
	case err := <-serverErrChan:
		log.WithError(err).Error("Server failed, initiating shutdown")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()

	if err := resources.Cleanup(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown completed with errors")
		os.Exit(1)
	}

	log.Info("Application shutdown complete")
}

// setupRouter configures and returns the HTTP router
func setupRouter(deps *container.Container, db *database.PostgresDB, votingService *service.VotingService, resultsService *service.ResultsService, electionService *service.ElectionService) *chi.Mux {
	cfg := deps.GetConfig()
	log := deps.GetLogger()
	authService := deps.GetAuthService()

	r := chi.NewRouter()

	corsConfig := &middleware.CORSConfig{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization"},
		ExposedHeaders:   []string{"Content-Length", "ETag"},
		AllowCredentials: true,
		MaxAge:           86400,
	}

	r.Use(middleware.CORS(corsConfig, log))
	r.Use(middleware.RequestID(log))
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Compress(5))
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	healthHandler := handler.NewHealthHandler(deps, db)
	votingHandler := handler.NewVotingHandler(votingService)
	resultsHandler := handler.NewResultsHandler(resultsService)
	electionHandler := handler.NewElectionHandler(electionService)

	// Health check (no auth required)
	r.Get("/health", healthHandler.Check)

	r.Route("/api/v1/elections", func(r chi.Router) {
		// Public reads
		r.Get("/", electionHandler.ListElections)
		r.Get("/{electionID}", electionHandler.GetElection)

		// Results disclose identities based on an optional token
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(authService, log))
			r.Get("/{electionID}/results", resultsHandler.GetResults)
		})

		// Voter endpoints (require authentication)
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(authService, log))

			r.Post("/{electionID}/ballot", votingHandler.SubmitBallot)
			r.Get("/{electionID}/my-ballot", votingHandler.GetMyBallot)
		})

		// Administrative endpoints
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(authService, log))
			r.Use(middleware.RequireAdmin(log))

			r.Post("/{electionID}/official", electionHandler.MarkOfficial)
			r.Get("/{electionID}/audit", electionHandler.GetAuditTrail)
		})
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Endpoint not found","type":"not_found"}`))
	})

	log.Info("Router configured successfully")
	return r
}
