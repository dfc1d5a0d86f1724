package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/johnknash2025/vrcompanion/internal/api"
	"github.com/johnknash2025/vrcompanion/internal/avatarbus"
	"github.com/johnknash2025/vrcompanion/internal/completion"
	"github.com/johnknash2025/vrcompanion/internal/config"
	"github.com/johnknash2025/vrcompanion/internal/db"
	"github.com/johnknash2025/vrcompanion/internal/dialogue"
	"github.com/johnknash2025/vrcompanion/internal/marketing"
	"github.com/johnknash2025/vrcompanion/internal/voice"
)

func main() {
	// Load and validate configuration; invalid config blocks startup
	cfg, err := config.Load(getEnvOrDefault("CONFIG_PATH", "config.yaml"))
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Ensure data directory exists
	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	// Initialize database
	database, err := db.NewDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migrated successfully")

	// Initialize completion client (optional; sessions fall back to
	// canned responses without it)
	var completer dialogue.Completer
	if cfg.Completion.APIKey != "" {
		completer = completion.NewClient(cfg.Completion.APIKey,
			completion.WithModel(cfg.Completion.Model),
			completion.WithMaxTokens(cfg.Completion.MaxTokens),
			completion.WithTemperature(cfg.Completion.Temperature),
		)
		log.Println("Completion client initialized")
	} else {
		log.Println("Warning: completion API key not configured, sessions will use fallback responses")
	}

	// Avatar parameter bus and voice engine
	bus := avatarbus.NewBus(cfg.AvatarBus.Host, cfg.AvatarBus.Port)
	speaker := voice.NewSynthesizer(cfg.Voice)

	// Marketing pipeline
	manager := marketing.NewManager(database, cfg.CatalogPath)

	factory := func() *dialogue.Session {
		return dialogue.NewSession(completer,
			dialogue.WithBus(bus),
			dialogue.WithSpeaker(speaker),
			dialogue.WithTraits(cfg.PersonalityTraits),
			dialogue.WithMaxHistory(cfg.MaxHistory),
		)
	}

	router := api.NewRouter(manager, factory)

	// Setup server
	port := getEnvOrDefault("PORT", "8080")
	server := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	// Handle graceful shutdown
	done := make(chan bool, 1)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Server is shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Fatalf("Server forced to shutdown: %v", err)
		}

		close(done)
	}()

	log.Printf("Server starting on port %s", port)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server failed to start: %v", err)
	}

	<-done
	log.Println("Server stopped gracefully")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
