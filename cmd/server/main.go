package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/the-abed/event-flow-server/config"
	"github.com/the-abed/event-flow-server/internal/email"
	"github.com/the-abed/event-flow-server/internal/health"
	"github.com/the-abed/event-flow-server/internal/infrastructure/store"
	ctxlog "github.com/the-abed/event-flow-server/internal/log"
	"github.com/the-abed/event-flow-server/internal/metrics"
	"github.com/the-abed/event-flow-server/internal/oauth"
	"github.com/the-abed/event-flow-server/internal/password"
	"github.com/the-abed/event-flow-server/internal/token"
	httptransport "github.com/the-abed/event-flow-server/internal/transport/http"
	"github.com/the-abed/event-flow-server/internal/transport/http/handler"
	"github.com/the-abed/event-flow-server/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	db, err := store.Open(ctx, cfg.StoreDriver, cfg.DatabaseURL, cfg.MongoDatabase)
	if err != nil {
		stop()
		log.Fatalf("store: %v", err)
	}
	defer db.Close()
	logger.Info("store connected", "driver", db.Driver)

	tokens, err := token.NewIssuer(cfg.TokenFormat, []byte(cfg.JWTSecret))
	if err != nil {
		stop()
		log.Fatalf("token issuer: %v", err)
	}

	// Auth
	emailSender := email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)
	authUsecase := usecase.NewAuthUsecase(db.Users, password.NewHasher(), tokens, emailSender, logger)
	authHandler := handler.NewAuthHandler(authUsecase, logger)

	var google handler.GoogleProvider
	if cfg.GoogleEnabled() {
		google = oauth.NewGoogle(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleCallbackURL)
	} else {
		logger.Warn("google sign-in disabled: GOOGLE_CLIENT_ID not set")
	}
	oauthHandler := handler.NewOAuthHandler(google, authUsecase, cfg.FrontendURL, cfg.Env != "local", logger)

	// Events
	eventUsecase := usecase.NewEventUsecase(db.Events)
	eventHandler := handler.NewEventHandler(eventUsecase, logger)

	metrics.Register()
	checker := health.NewChecker(db, db.Driver, logger, prometheus.DefaultRegisterer)
	if err := checker.StartProbe(ctx, cfg.HealthProbeSchedule); err != nil {
		stop()
		log.Fatalf("health probe: %v", err)
	}

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:       logger,
		AuthHandler:  authHandler,
		OAuthHandler: oauthHandler,
		EventHandler: eventHandler,
		Tokens:       tokens,
		Readiness:    checker,
		HSTS:         cfg.Env != "local",
	})

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	})

	srv := http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           corsHandler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	// The store is connected and its schema applied.
	checker.MarkReady()

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
