/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the exercise quota engine server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Initialize SQLite store
  3. Load the tracker (normalize + catch-up rollover)
  4. Configure HTTP router
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port       HTTP server port (default: 8080)
  -db         SQLite database path (default: exercises.db)
              Use ":memory:" for an in-memory database
  -log-level  logrus level: debug, info, warn, error (default: info)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/exercises.db"

  # Run with in-memory database
  ./server -db=":memory:"

  # Run on different port with debug logging
  ./server -port=3000 -log-level=debug

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
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/warp/quota-engine/api"
	"github.com/warp/quota-engine/store/sqlite"
	"github.com/warp/quota-engine/tracker"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "exercises.db", "SQLite database path")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	level, err := log.ParseLevel(*logLevel)
	if err != nil {
		log.Fatalf("Invalid log level %q: %v", *logLevel, err)
	}
	log.SetLevel(level)

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Initialize tracker; Load catches every exercise up to today the
	// same way the client did on page load.
	tr := tracker.New(store)
	if err := tr.Load(context.Background()); err != nil {
		log.Fatalf("Failed to load exercises: %v", err)
	}

	// Create router
	router := api.NewRouter(api.NewHandler(tr))

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Infof("Server starting on http://localhost:%d", *port)
		log.Infof("API available at http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped")
}
