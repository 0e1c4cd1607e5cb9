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

	"github.com/cakeoats/ZEROWASTEFORK-sub000/internal/config"
	"github.com/cakeoats/ZEROWASTEFORK-sub000/internal/server"
)

func main() {
	// Load env vars
	if err := godotenv.Load(); err != nil {
		log.Println("Marketplace: No .env file found, relying on system env vars")
	}

	// Load config
	cfg := config.Load()

	// Init server
	srv := server.New(cfg)

	// Run server
	errCh := make(chan error, 1)
	go func() {
		log.Printf("Marketplace service starting on %s", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Println("Shutting down marketplace service...")
		if err := srv.Shutdown(ctx); err != nil {
			log.Fatalf("Marketplace shutdown failed: %v", err)
		}
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}
}
