package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/frizerski/booking-api/internal/config"
	"github.com/frizerski/booking-api/internal/domain/appointment"
	"github.com/frizerski/booking-api/internal/domain/auth"
	"github.com/frizerski/booking-api/internal/domain/catalog"
	"github.com/frizerski/booking-api/internal/domain/stylist"
	"github.com/frizerski/booking-api/internal/domain/user"
	"github.com/frizerski/booking-api/internal/domain/verify"
	"github.com/frizerski/booking-api/internal/middleware"
	"github.com/frizerski/booking-api/internal/pkg/database"
	"github.com/frizerski/booking-api/internal/pkg/imaging"
	"github.com/frizerski/booking-api/internal/pkg/jwt"
	"github.com/frizerski/booking-api/internal/pkg/logger"
	pkgresponse "github.com/frizerski/booking-api/internal/pkg/response"
	"github.com/frizerski/booking-api/internal/pkg/sms"
	"github.com/frizerski/booking-api/internal/pkg/storage"
)

const version = "1.0.0"

func main() {
	cfg := config.Load()

	if err := logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Env,
		LogFile:     cfg.LogFile,
	}); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logger")
	}

	log.Info().Str("env", cfg.Env).Str("port", cfg.Port).Msg("Starting salon booking API")

	if cfg.IsProduction() && cfg.JWTSecret == "super-secret-key-change-me" {
		log.Fatal().Msg("JWT_SECRET must be set in production")
	}

	// ---------- Infrastructure ----------
	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 10*time.Second)
	database.CheckTables(startupCtx, db)

	redisClient, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, rate limiting and phone verification disabled")
		redisClient = nil
	}
	defer database.CloseRedis(redisClient)

	fileStorage, err := newStorage(startupCtx, cfg)
	startupCancel()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize storage")
	}

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTTTL)

	// ---------- Realtime ----------
	hub := appointment.NewHub(redisClient)
	go hub.Run()

	// ---------- Repositories ----------
	userRepo := user.NewRepository(db)
	stylistRepo := stylist.NewRepository(db)
	catalogRepo := catalog.NewRepository(db)
	appointmentRepo := appointment.NewRepository(db)

	// ---------- Services ----------
	processor := imaging.NewProcessor(imaging.DefaultConfig())
	stylistService := stylist.NewService(stylistRepo, fileStorage, processor)
	catalogManager := catalog.NewManager(catalogRepo, stylistRepo)
	appointmentService := appointment.NewService(appointmentRepo, stylistRepo, catalogRepo, hub)
	userService := user.NewService(userRepo)
	authService := auth.NewService(userRepo, jwtService)

	var codeStore verify.CodeStore
	if redisClient != nil {
		codeStore = verify.NewRedisStore(redisClient)
	}
	verifyService := verify.NewService(codeStore, sms.New(cfg.SMSWebhookURL, cfg.SMSWebhookToken), cfg.JWTSecret)

	// ---------- Handlers ----------
	userHandler := user.NewHandler(userService)
	authHandler := auth.NewHandler(authService)
	stylistHandler := stylist.NewHandler(stylistService)
	catalogHandler := catalog.NewHandler(catalogManager)
	appointmentHandler := appointment.NewHandler(appointmentService, hub, cfg.AllowedOrigins)
	verifyHandler := verify.NewHandler(verifyService)

	authMiddleware := middleware.Auth(jwtService)
	optionalAuth := middleware.OptionalAuth(jwtService)
	bookingLimiter := middleware.NewRateLimiter(redisClient, cfg.BookingRateLimit, cfg.BookingRateWindow, "rl:booking")
	verifyLimiter := middleware.NewRateLimiter(redisClient, cfg.BookingRateLimit, cfg.BookingRateWindow, "rl:verify")

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	// WebSocket endpoint (outside Compress)
	r.Get("/ws/availability", appointmentHandler.WebSocket)

	r.Group(func(r chi.Router) {
		r.Use(chimw.Compress(5))
		r.Use(middleware.Timeout(10 * time.Second))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			pkgresponse.OK(w, map[string]string{
				"message": "Salon booking API",
				"version": version,
				"status":  "running",
			})
		})

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			pkgresponse.OK(w, map[string]string{
				"status":  "ok",
				"version": version,
			})
		})

		r.Get("/ready", readyHandler(readinessChecks(db.PingContext, redisClient)...))

		r.Route("/api", func(r chi.Router) {
			r.Mount("/users", userHandler.Routes(authMiddleware, optionalAuth, authHandler))
			r.Mount("/stylists", stylistHandler.Routes(authMiddleware, optionalAuth))
			r.Mount("/frizers", stylistHandler.Routes(authMiddleware, optionalAuth))
			r.Mount("/services", catalogHandler.Routes(authMiddleware))
			r.Mount("/appointments", appointmentHandler.Routes(authMiddleware, bookingLimiter))
			r.Mount("/verify", verifyHandler.Routes(verifyLimiter))
		})

		if cfg.StorageDriver != "r2" {
			mountUploads(r, cfg.StorageLocalPath)
		}
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

	hub.Shutdown()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

// newStorage picks the portrait store from STORAGE_DRIVER
func newStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	if cfg.StorageDriver == "r2" {
		store, err := storage.NewR2Storage(ctx, storage.R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			AccessKeySecret: cfg.R2AccessKeySecret,
			BucketName:      cfg.R2BucketName,
			PublicURL:       cfg.R2PublicURL,
		})
		if err != nil {
			return nil, err
		}
		log.Info().Str("bucket", cfg.R2BucketName).Msg("Using R2 storage")
		return store, nil
	}

	store, err := storage.NewLocalStorage(cfg.StorageLocalPath, cfg.StoragePublicURL)
	if err != nil {
		return nil, err
	}
	log.Info().Str("path", cfg.StorageLocalPath).Msg("Using local storage")
	return store, nil
}

// mountUploads serves locally stored portraits under /uploads
func mountUploads(r chi.Router, dir string) {
	fs := http.StripPrefix("/uploads", http.FileServer(http.Dir(dir)))
	r.Get("/uploads/*", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=86400")
		fs.ServeHTTP(w, req)
	})
}

type readinessCheck struct {
	name  string
	check func(ctx context.Context) error
}

func readinessChecks(pingDB func(ctx context.Context) error, redisClient *redis.Client) []readinessCheck {
	checks := []readinessCheck{{name: "postgres", check: pingDB}}
	if redisClient != nil {
		checks = append(checks, readinessCheck{
			name: "redis",
			check: func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			},
		})
	}
	return checks
}

// readyHandler reports 503 until every dependency answers
func readyHandler(checks ...readinessCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := make(map[string]string, len(checks))
		ready := true
		for _, c := range checks {
			if err := c.check(ctx); err != nil {
				log.Warn().Err(err).Str("dependency", c.name).Msg("Readiness check failed")
				status[c.name] = "down"
				ready = false
				continue
			}
			status[c.name] = "up"
		}

		if !ready {
			pkgresponse.JSON(w, http.StatusServiceUnavailable, status)
			return
		}
		pkgresponse.OK(w, status)
	}
}
