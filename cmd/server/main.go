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
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/dantemoss/moss/internal/antispam"
	"github.com/dantemoss/moss/internal/config"
	"github.com/dantemoss/moss/internal/contact"
	"github.com/dantemoss/moss/internal/health"
	"github.com/dantemoss/moss/internal/logger"
	"github.com/dantemoss/moss/internal/mailer"
	"github.com/dantemoss/moss/internal/metrics"
	"github.com/dantemoss/moss/internal/middleware"
)

const version = "1.0.0"

func main() {
	// Load .env if present; the environment wins over the file
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(logger.DefaultConfig())

	if cfg.Mail.APIKey == "" {
		log.Warn("RESEND_API_KEY is not set; contact submissions will fail until it is configured")
	}

	// Optional shared rate-limit store
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Error("Failed to connect to Redis, falling back to in-process rate limiting", "error", err)
			redisClient = nil
		} else {
			log.Info("Connected to Redis", "addr", cfg.Redis.Addr)
		}
		cancel()
	}

	var rateStore middleware.RateStore
	if redisClient != nil {
		rateStore = middleware.NewRedisStore(redisClient, "ratelimit:")
	} else {
		rateStore = middleware.NewMemoryStore(time.Minute)
	}

	limiter := middleware.NewRateLimiter(rateStore, cfg.RateLimit.Max, cfg.RateLimit.Window, cfg.RateLimit.Message, log, nil)
	edgeGuard := middleware.NewEdgeGuard(cfg.Security, limiter)

	// Mail and contact wiring
	mail := mailer.NewResend(cfg.Mail.APIKey, cfg.Mail.SendTimeout, log)
	submitStore := antispam.NewMemoryStore()
	contactService := contact.NewService(cfg, mail, submitStore, log, nil)
	contactHandler := contact.NewHandler(contactService, cfg, log)
	testEmailHandler := contact.NewTestEmailHandler(mail, cfg, log)

	healthHandler := health.NewHandler(health.Config{
		MailConfigured: mail.Configured(),
		RedisClient:    redisClient,
		Version:        version,
	})

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.NewRecoverer(log, cfg.IsDevelopment()).Handler)
	r.Use(middleware.NewLoggingMiddleware(log).Handler)
	r.Use(metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: cfg.CORS.AllowedMethods,
		AllowedHeaders: cfg.CORS.AllowedHeaders,
		ExposedHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		MaxAge:         300,
	}))
	r.Use(edgeGuard.Handler)

	r.Get("/health", healthHandler.Health)
	r.Get("/health/ready", healthHandler.Readiness)
	r.Get("/health/live", healthHandler.Liveness)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		contact.RegisterRoutes(r, contactHandler, testEmailHandler)
	})

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Starting server", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}

	log.Info("Server exited")
}
