package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/vaultpass/passgen-go/internal/breach"
	"github.com/vaultpass/passgen-go/internal/config"
	"github.com/vaultpass/passgen-go/internal/crypto"
	"github.com/vaultpass/passgen-go/internal/events"
	"github.com/vaultpass/passgen-go/internal/handler"
	"github.com/vaultpass/passgen-go/internal/middleware"
	"github.com/vaultpass/passgen-go/internal/repository"
	"github.com/vaultpass/passgen-go/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bus := events.New()
	if err := bus.Subscribe(events.TopicPasswordGenerated, func(ev events.PasswordGenerated) {
		slog.Info("password generated", "length", ev.Length, "score", ev.Score, "label", ev.Label)
	}); err != nil {
		slog.Error("subscribing to generator events failed", "error", err)
		os.Exit(1)
	}

	breachCfg := breach.Config{
		BaseURL:   cfg.HIBPBaseURL,
		UserAgent: cfg.HIBPUserAgent,
		Timeout:   cfg.HIBPTimeout,
	}
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		breachCfg.Cache = breach.NewRedisCache(rdb, cfg.RangeCacheTTL)
		slog.Info("range cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.RangeCacheTTL)
	}
	breaches := breach.NewClient(breachCfg)

	genHandler := handler.NewGeneratorHandler(service.NewGeneratorService(bus))
	checkHandler := handler.NewCheckerHandler(service.NewCheckerService(breaches))

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Post("/api/v1/generate", genHandler.HandleGenerate)
	r.Post("/api/v1/strength", checkHandler.HandleStrength)
	r.With(middleware.RateLimit(ctx, cfg.BreachRPS, cfg.BreachBurst)).
		Post("/api/v1/breach", checkHandler.HandleBreach)

	// Auth and vault routes need a valid DSN. An unreachable server only fails
	// those requests.
	db, err := repository.NewDB(cfg.DatabaseDSN)
	if err != nil {
		slog.Warn("invalid database configuration, auth and vault routes disabled", "error", err)
	} else {
		defer db.Close()

		sealer, err := crypto.NewSealer(cfg.VaultKey)
		if err != nil {
			slog.Error("vault key rejected", "error", err)
			os.Exit(1)
		}
		tokens := crypto.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiry)

		authHandler := handler.NewAuthHandler(service.NewAuthService(repository.NewUserRepository(db), tokens))

		vaultService := service.NewVaultService(repository.NewVaultRepository(db), sealer, breaches, bus)
		if err := bus.SubscribeAsync(events.TopicEntrySaved, vaultService.HandleEntrySaved); err != nil {
			slog.Error("subscribing to vault events failed", "error", err)
			os.Exit(1)
		}
		vaultHandler := handler.NewVaultHandler(vaultService)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(ctx, 5, 10))
			r.Post("/api/v1/auth/register", authHandler.HandleRegister)
			r.Post("/api/v1/auth/login", authHandler.HandleLogin)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(tokens))
			r.Get("/api/v1/auth/me", authHandler.HandleMe)

			r.Get("/api/v1/vault", vaultHandler.HandleListEntries)
			r.Post("/api/v1/vault", vaultHandler.HandleCreateEntry)
			r.Post("/api/v1/vault/audit", vaultHandler.HandleAudit)
			r.Get("/api/v1/vault/{entry_id}", vaultHandler.HandleGetEntry)
			r.Put("/api/v1/vault/{entry_id}", vaultHandler.HandleUpdateEntry)
			r.Delete("/api/v1/vault/{entry_id}", vaultHandler.HandleDeleteEntry)
		})
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
	}

	// Let pending breach rechecks finish before their stores go away.
	bus.Close()
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			slog.Warn("closing redis failed", "error", err)
		}
	}

	slog.Info("server stopped")
}
