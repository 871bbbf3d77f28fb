package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	app "github.com/EuWork/WebSockets/internal/app"
	httpx "github.com/EuWork/WebSockets/internal/http"
	push "github.com/EuWork/WebSockets/internal/push"
	relay "github.com/EuWork/WebSockets/internal/relay"
	store "github.com/EuWork/WebSockets/internal/store"
)

func main() {
	// Load local .env (dev only)
	_ = godotenv.Load()

	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	logger := app.NewLogger(cfg.Env)

	// Cancel on SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Postgres connection + migrations
	pg, err := store.NewPostgres(ctx, cfg, logger)
	if err != nil {
		logger.Error("postgres.connect", "err", err)
		log.Fatal(err)
	}
	defer pg.Close()
	if err := store.RunMigrations(ctx, pg, logger); err != nil {
		logger.Error("migrations", "err", err)
		log.Fatal(err)
	}

	// Redis bus carrying room events to the push dispatcher
	bus, err := push.NewRedisBus(ctx, cfg, logger)
	if err != nil {
		logger.Error("redis.connect", "err", err)
		log.Fatal(err)
	}
	defer bus.Close()

	// Subscription directory, seeded from postgres
	subs := push.NewDirectory(pg, logger)
	if err := subs.Load(ctx); err != nil {
		// Push is best-effort; start with an empty directory.
		logger.Error("push.subscriptions.load", "err", err)
	}

	// Web-push dispatcher
	dispatcher := push.NewDispatcher(subs, push.NewWebPushSender(cfg), logger)
	go dispatcher.Run(ctx, bus)

	// WebSocket hub
	hub := relay.NewHub(logger, bus)

	// HTTP + WS router
	router := httpx.NewRouter(cfg, logger, hub, subs)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server
	go func() {
		logger.Info("server.listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server.crash", "err", err)
			cancel()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	logger.Info("server.shutdown.start")

	// shutdown
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	_ = srv.Shutdown(shutdownCtx)

	logger.Info("server.shutdown.complete")
	_ = os.Stdout.Sync()
}
