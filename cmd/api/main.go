package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sanoh-inlab/labelgo/internal/backend"
	"github.com/sanoh-inlab/labelgo/internal/config"
	"github.com/sanoh-inlab/labelgo/internal/database"
	"github.com/sanoh-inlab/labelgo/internal/handlers"
	"github.com/sanoh-inlab/labelgo/internal/middleware"
	"github.com/sanoh-inlab/labelgo/internal/services/labels"
	"github.com/sanoh-inlab/labelgo/internal/services/printer"
	"github.com/sanoh-inlab/labelgo/internal/websocket"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Initialize database (Detects Embedded vs External automatically)
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	// Note: db.Close() is called manually in shutdown handler below

	// 3. Auto-Migrate Schema
	log.Println("🚀 Synchronizing database schema...")
	if err := db.Migrate(); err != nil {
		log.Printf("⚠️ Migration warning: %v\n", err)
	} else {
		log.Println("✅ Schema synchronized successfully")
	}

	// 4. Label generator
	logo, err := printer.LoadLogo(cfg.Print.LogoPath, cfg.Print.CompanyName)
	if err != nil {
		log.Printf("⚠️ Label logo unavailable, printing company name instead: %v", err)
	}
	generator := printer.NewGenerator(printer.NewQREncoder(), printer.Options{
		Workers:  cfg.Print.QRWorkers,
		Location: cfg.Print.Location(),
		Logo:     logo,
	})

	// 5. Services
	hub := websocket.NewHub()
	go hub.Run()

	if cfg.Backend.URL == "" {
		log.Println("⚠️ LABEL_API_URL not configured, backend calls will fail")
	}
	client := backend.NewClient(cfg.Backend.URL, cfg.Backend.Timeout)
	labelService := labels.NewService(client, db, generator, hub)

	syncService := labels.NewSyncService(labelService, cfg.Backend.Token, cfg.Sync.Interval)
	syncService.Start()

	// 6. Set up HTTP router
	router := handlers.NewRouter(cfg, db, client, labelService, hub)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: middleware.CanonicalPathMiddleware(router),
	}

	// Channel to listen for shutdown signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Label server starting on port %s (backend: %s)\n", cfg.Port, cfg.Backend.URL)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	sig := <-shutdown
	log.Printf("\n⚠️  Received signal: %v. Shutting down gracefully...\n", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	syncService.Stop()
	hub.Stop()

	// Close database (this also stops embedded PostgreSQL)
	log.Println("🛑 Closing database connection...")
	if err := db.Close(); err != nil {
		log.Printf("Database close error: %v", err)
	}

	log.Println("✅ Shutdown complete")
}
