/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the leave management server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (.env / environment)
  2. Initialize SQLite store
  3. Build the leave engine and hydrate it from storage
  4. Configure HTTP router
  5. Start server with graceful shutdown

CONFIGURATION:
  PORT             HTTP server port (default: 8080)
  DB_PATH          SQLite database path (default: leave.db)
                   Use ":memory:" for an in-memory database
  ALLOWED_ORIGINS  Comma-separated CORS origins
  LOG_LEVEL        debug|info|warn|error (default: info)
  APP_ENV          Environment label for logs (default: development)

COMMAND-LINE FLAGS:
  -port    Overrides PORT
  -db      Overrides DB_PATH

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ist-hq/leave-engine/api"
	"github.com/ist-hq/leave-engine/config"
	"github.com/ist-hq/leave-engine/leave"
	"github.com/ist-hq/leave-engine/store/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Flags override the environment
	port := flag.Int("port", cfg.App.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.Database.Path, "SQLite database path")
	flag.Parse()
	cfg.App.Port = *port
	cfg.Database.Path = *dbPath

	// Initialize store
	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Build the engine and hydrate it from storage
	engine := leave.NewEngine(store)
	if err := engine.Load(context.Background()); err != nil {
		log.Fatalf("Failed to load state: %v", err)
	}

	// Create router
	router := api.NewRouter(api.NewHandler(engine), api.RouterOptions{
		AllowedOrigins: cfg.App.AllowedOrigins,
		LogLevel:       cfg.SlogLevel(),
		Env:            cfg.App.Env,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost:%d", cfg.App.Port)
		log.Printf("API available at http://localhost:%d/api", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
