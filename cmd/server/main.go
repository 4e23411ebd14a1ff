package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/camachoroberto/daily-roulette/internal/api"
	"github.com/camachoroberto/daily-roulette/internal/config"
	"github.com/camachoroberto/daily-roulette/internal/logging"
	"github.com/camachoroberto/daily-roulette/internal/storage"
)

func main() {
	logging.Bootstrap()

	if err := config.LoadDotEnv(".env"); err != nil {
		logging.Log.Warnf("failed to load .env: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		logging.Log.Fatalf("invalid configuration: %v", err)
	}
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := storage.Open(cfg)
	if err != nil {
		logging.Log.Fatalf("database connection failed: %v", err)
	}
	if err := store.Migrate(); err != nil {
		logging.Log.Fatalf("database migration failed: %v", err)
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: api.NewServer(cfg, store).Router(),
	}

	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctrlc
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}()

	logging.Log.Infof("daily-roulette listening on :%d", cfg.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logging.Log.Fatalf("server closed unexpectedly: %v", err)
	}
}
