// Package main is the entry point for the API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/propstack/tenant-chatbot/internal/config"
	"github.com/propstack/tenant-chatbot/internal/handler"
	"github.com/propstack/tenant-chatbot/internal/middleware"
	natsclient "github.com/propstack/tenant-chatbot/internal/nats"
	"github.com/propstack/tenant-chatbot/internal/service"
	"github.com/propstack/tenant-chatbot/internal/store"
	"github.com/propstack/tenant-chatbot/internal/store/db"
	"github.com/propstack/tenant-chatbot/pkg/logger"
	"github.com/propstack/tenant-chatbot/pkg/tracing"
)

func main() {
	// Load .env if present, then configuration
	_ = godotenv.Load()
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting chatbot API server")

	// Initialize tracing if enabled
	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "tenant-chatbot", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Open the database
	driver, err := db.NewDriver(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Error("failed to open database", zap.Error(err))
		os.Exit(1)
	}
	st := store.New(driver)
	defer st.Close()

	// Seed the knowledge base on first run
	if cfg.KnowledgeSeedFile != "" {
		n, err := st.LoadKnowledgeSeed(ctx, cfg.KnowledgeSeedFile)
		if err != nil {
			log.Error("failed to seed knowledge base", zap.Error(err))
			os.Exit(1)
		}
		if n > 0 {
			log.Info("knowledge base seeded", zap.Int("entries", n))
		}
	}

	// Connect to NATS when an event bus is configured. events stays a nil
	// interface when it is not, so the services skip publishing entirely.
	var (
		nc     *natsclient.Client
		events service.EventPublisher
	)
	if cfg.NATSURL != "" {
		nc, err = natsclient.Connect(natsclient.Config{
			URL:      cfg.NATSURL,
			CAFile:   cfg.NATSCAFile,
			CertFile: cfg.NATSCertFile,
			KeyFile:  cfg.NATSKeyFile,
			Token:    cfg.NATSToken,
		}, log)
		if err != nil {
			log.Error("failed to connect to NATS", zap.Error(err))
			os.Exit(1)
		}
		defer nc.Close()

		publisher := natsclient.NewEventPublisher(nc)
		if err := publisher.EnsureStream(ctx); err != nil {
			log.Error("failed to ensure event stream", zap.Error(err))
			os.Exit(1)
		}
		events = publisher
	}

	// Initialize services
	chatSvc := service.NewChatService(st, events, log, service.Options{
		TurnTimeout:   cfg.TurnTimeout,
		FallbackReply: cfg.FallbackReply,
		ActionIntents: map[string]string{
			"maintenance": "maintenance_request",
		},
	})
	feedbackSvc := service.NewFeedbackService(st, events, log)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(st, nc)
	chatHandler := handler.NewChatHandler(chatSvc, feedbackSvc, log)
	conversationHandler := handler.NewConversationHandler(chatSvc, log)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	// API routes with authentication
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

		r.Route("/chat", func(r chi.Router) {
			r.Post("/messages", chatHandler.Turn)
			r.Post("/feedback", chatHandler.Feedback)

			r.Route("/conversations/{id}", func(r chi.Router) {
				r.Get("/messages", conversationHandler.History)
				r.Post("/end", conversationHandler.End)
			})
		})
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
