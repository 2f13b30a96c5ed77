package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"critter-market/internal/platform/config"
	"critter-market/internal/platform/logger"
	"critter-market/internal/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	lg := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})

	h, err := router.NewRouter(context.Background(), router.Options{
		Cfg:          cfg,
		Logger:       lg,
		AuthVerifier: nil, // sin verifier en modo dev
	})
	if err != nil {
		log.Fatalf("router error: %v", err)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: h,
		// Sin ReadTimeout/WriteTimeout globales: cortarían el feed
		// websocket de /ws/events. Los deadlines del feed los maneja
		// el propio hub.
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	lg.Info("starting server", map[string]any{"addr": srv.Addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
