package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/facio/facio/internal/config"
	"github.com/facio/facio/internal/db"
	"github.com/facio/facio/internal/server"
	"github.com/joho/godotenv"
)

var (
	migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")
	seedOnlyFlag    = flag.Bool("seed-only", false, "Run DB seed and exit")
)

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg := config.Load()

	if *migrateOnlyFlag || *seedOnlyFlag {
		if err := runMaintenance(cfg, *seedOnlyFlag); err != nil {
			log.Fatalf("Maintenance failed: %v", err)
		}
		return
	}

	storage, err := server.OpenStorage(cfg)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer storage.Close()

	outputs, err := server.OutputsFrom(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to configure outputs: %v", err)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      withLogging(buildHandler(cfg, storage, outputs)),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Printf("Server starting on port %s (storage=%s dev=%v)", cfg.Server.Port, cfg.Storage.Backend, cfg.App.Dev)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Server stopped gracefully")
}

// runMaintenance migrates (and optionally seeds) the SQL backend. Other
// backends have no schema.
func runMaintenance(cfg *config.Config, seed bool) error {
	driver := cfg.Storage.SQLDriver()
	if driver == "" {
		log.Printf("Storage backend %q has no schema, nothing to do", cfg.Storage.Backend)
		return nil
	}
	conn, err := db.Open(db.Options{
		Driver:        driver,
		DSN:           cfg.Storage.SQLDSN(),
		SQLMigrations: cfg.App.Migrations,
	})
	if err != nil {
		return err
	}
	if sqlDB, err := conn.DB(); err == nil {
		defer sqlDB.Close()
	}
	log.Println("Migrations completed successfully")
	if !seed {
		return nil
	}
	if err := db.Seed(conn); err != nil {
		return err
	}
	log.Println("Seeding completed successfully")
	return nil
}
