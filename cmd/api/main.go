package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/lokaldigital/site-service/internal/config"
	"github.com/lokaldigital/site-service/internal/httpserver"
	"github.com/lokaldigital/site-service/internal/logging"
	"github.com/lokaldigital/site-service/internal/notify"
	"github.com/lokaldigital/site-service/internal/store"
)

// main boots the service: env → config → store → schema → HTTP server.
func main() {
	// .env is a local-dev convenience; absence is fine.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("skipping .env: %v", err)
	}

	logger := logging.New()
	cfg := config.Load()

	// The store lives for the process lifetime and is handed to every
	// consumer explicitly. Captured leads survive restarts only via
	// the notification email side-channel.
	st, err := store.Open(cfg.StoreDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer st.Close()

	if err := st.EnsureSchema(context.Background()); err != nil {
		log.Fatal(err)
	}

	mailer := notify.NewMailer(cfg.NotifyAPIURL, cfg.NotifyAPIKey, cfg.NotifyFrom, cfg.NotifyTo, logger)

	router := httpserver.NewRouter(cfg, st, mailer, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
	logger.Info("server stopped")
}
