package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/deskly/deskly-api/internal/config"
	"github.com/deskly/deskly-api/internal/domain/auth"
	"github.com/deskly/deskly-api/internal/domain/booking"
	"github.com/deskly/deskly-api/internal/domain/location"
	"github.com/deskly/deskly-api/internal/domain/realtime"
	"github.com/deskly/deskly-api/internal/domain/space"
	"github.com/deskly/deskly-api/internal/domain/user"
	"github.com/deskly/deskly-api/internal/middleware"
	"github.com/deskly/deskly-api/internal/pkg/database"
	"github.com/deskly/deskly-api/internal/pkg/imaging"
	"github.com/deskly/deskly-api/internal/pkg/jwt"
	"github.com/deskly/deskly-api/internal/pkg/logger"
	pkgresponse "github.com/deskly/deskly-api/internal/pkg/response"
	"github.com/deskly/deskly-api/internal/pkg/storage"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env}); err != nil {
		log.Fatal().Err(err).Msg("Failed to init logger")
	}

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting Deskly API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redisClient, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redisClient)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)

	// Object store for floor layout images: R2 in real environments,
	// local filesystem when no account is configured
	var store storage.Storage
	if cfg.StorageAccountID != "" {
		store, err = storage.NewR2Storage(storage.R2Config{
			AccountID:       cfg.StorageAccountID,
			AccessKeyID:     cfg.StorageAccessKeyID,
			AccessKeySecret: cfg.StorageAccessKeySecret,
			BucketName:      cfg.StorageBucketName,
			PublicURL:       cfg.StoragePublicURL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create R2 storage")
		}
	} else {
		store, err = storage.NewLocalStorage("./uploads", "/uploads")
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create local storage")
		}
		log.Warn().Msg("No storage account configured, using local filesystem")
	}

	processor := imaging.NewProcessor(imaging.DefaultConfig())

	// ---------- Repositories ----------
	userRepo := user.NewRepository(db)
	spaceRepo := space.NewRepository(db)
	locationRepo := location.NewRepository(db)
	bookingRepo := booking.NewRepository(db)

	// ---------- WebSocket hub ----------
	hub := realtime.NewHub(redisClient)
	go hub.Run()
	defer hub.Shutdown()

	// ---------- Services ----------
	authService := auth.NewService(userRepo, jwtService, redisClient)

	availability := booking.NewAvailability(
		bookingRepo,
		booking.BusinessHours{Start: cfg.BusinessHoursStart, End: cfg.BusinessHoursEnd},
		redisClient,
		cfg.AvailabilityCacheTTL,
	)

	bookingService := booking.NewService(
		bookingRepo,
		&spaceDirectoryAdapter{repo: spaceRepo},
		booking.CancellationPolicy{},
		nil,
		realtime.NewBookingNotifier(hub),
	)

	// ---------- Handlers ----------
	authHandler := auth.NewHandler(authService)
	userHandler := user.NewHandler(userRepo)
	spaceHandler := space.NewHandler(spaceRepo, availability, cfg.DefaultSlotHours)
	locationHandler := location.NewHandler(locationRepo, store, processor)
	bookingHandler := booking.NewHandler(bookingService)
	realtimeHandler := realtime.NewHandler(hub, cfg.AllowedOrigins)

	authMiddleware := middleware.Auth(jwtService)
	adminOnly := middleware.RequireAdmin()

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	// WebSocket endpoint (before Compress)
	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token != "" {
			r.Header.Set("Authorization", "Bearer "+token)
		}
		authMiddleware(http.HandlerFunc(realtimeHandler.Serve)).ServeHTTP(w, r)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chimw.Compress(5))

		r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
			pkgresponse.OK(w, map[string]string{"message": "pong"})
		})

		r.Mount("/auth", authHandler.Routes(authMiddleware))
		r.Mount("/bookings", bookingHandler.Routes(authMiddleware, adminOnly))
		r.Mount("/spaces", spaceHandler.Routes(authMiddleware, adminOnly))
		r.Mount("/locations", locationHandler.Routes(authMiddleware, adminOnly))
		r.Mount("/buildings", locationHandler.FloorRoutes(authMiddleware, adminOnly))
		r.Mount("/floors", locationHandler.LayoutRoutes(authMiddleware, adminOnly))
		r.Mount("/users", userHandler.Routes(authMiddleware, adminOnly))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

// spaceDirectoryAdapter adapts space.Repository to booking.SpaceDirectory
type spaceDirectoryAdapter struct {
	repo space.Repository
}

func (a *spaceDirectoryAdapter) GetSpace(ctx context.Context, id uuid.UUID) (*booking.SpaceInfo, error) {
	s, err := a.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, space.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &booking.SpaceInfo{
		ID:       s.ID,
		FloorID:  s.FloorID,
		Active:   s.IsActive,
		Bookable: s.IsBookable,
	}, nil
}
