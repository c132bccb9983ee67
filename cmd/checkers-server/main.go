// Package main runs the checkers analysis server: the engine boundary over a
// RESTful API, with an optional SQLite analysis cache and operator accounts.
package main

import (
	"context"
	"crypto/rand"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"checkers/cmd/checkers-server/cli"
	"checkers/internal/server/engine"
	"checkers/internal/server/http"
	"checkers/internal/server/processor"
	"checkers/internal/server/service"
	"checkers/internal/server/storage"
)

const (
	gracefulShutdownTimeout = time.Second * 5
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "db" {
		if err := cli.Run(os.Args[2:]); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		os.Exit(0)
	}

	var (
		apiHost       = flag.String("api-host", "localhost", "API server host")
		apiPort       = flag.Int("api-port", 8080, "API server port")
		dev           = flag.Bool("dev", false, "Development mode (relaxed rate limits, fixed JWT secret)")
		storagePath   = flag.String("storage-path", "", "Path to SQLite database file (disables cache and operators if empty)")
		pidPath       = flag.String("pid", "", "Optional path to write PID file")
		pidLock       = flag.Bool("pid-lock", false, "Lock PID file to allow only one instance (requires -pid)")
		workers       = flag.Int("workers", processor.DefaultWorkers, "Number of engine search workers")
		maxDepth      = flag.Int("max-depth", engine.MaxSearchDepth, "Deepest search the server accepts")
		searchTimeout = flag.Duration("search-timeout", processor.DefaultSearchTimeout, "Time limit for one search")
	)
	flag.Parse()

	if *pidLock && *pidPath == "" {
		log.Fatal("Error: -pid-lock flag requires the -pid flag to be set")
	}
	if *maxDepth < 1 || *maxDepth > engine.MaxSearchDepth {
		log.Fatalf("Error: -max-depth must be between 1 and %d", engine.MaxSearchDepth)
	}
	if *workers < 1 {
		log.Fatal("Error: -workers must be at least 1")
	}

	if *pidPath != "" {
		cleanup, err := managePIDFile(*pidPath, *pidLock)
		if err != nil {
			log.Fatalf("Failed to manage PID file: %v", err)
		}
		defer cleanup()
		log.Printf("PID file created at: %s (lock: %v)", *pidPath, *pidLock)
	}

	// 1. Storage (optional)
	var store *storage.Store
	if *storagePath != "" {
		log.Printf("Initializing persistent storage at: %s", *storagePath)
		var err error
		store, err = storage.NewStore(*storagePath, *dev)
		if err != nil {
			log.Fatalf("Failed to initialize storage: %v", err)
		}
		if err := store.InitDB(); err != nil {
			log.Fatalf("Failed to initialize schema: %v", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Printf("Warning: failed to close storage cleanly: %v", err)
			}
		}()
	} else {
		log.Printf("Persistent storage disabled (use -storage-path to enable)")
	}

	var jwtSecret []byte
	if *dev {
		jwtSecret = []byte("dev-secret-minimum-32-characters-long")
		log.Printf("Using fixed JWT secret (dev mode)")
	} else {
		jwtSecret = make([]byte, 32)
		if _, err := rand.Read(jwtSecret); err != nil {
			log.Fatalf("Failed to generate JWT secret: %v", err)
		}
		log.Printf("JWT secret generated (sessions valid until restart)")
	}

	// 2. Service
	svc := service.New(store, jwtSecret)

	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	go svc.RunCleanupJob(cleanupCtx, service.CleanupJobInterval)

	// 3. Processor with its engine queue
	proc := processor.New(svc, processor.Config{
		Workers:       *workers,
		MaxDepth:      *maxDepth,
		SearchTimeout: *searchTimeout,
	})

	// 4. HTTP
	app := http.NewFiberApp(proc, svc, *dev)
	apiAddr := fmt.Sprintf("%s:%d", *apiHost, *apiPort)

	go func() {
		log.Printf("Checkers API Server starting...")
		log.Printf("API Listening on: http://%s", apiAddr)
		log.Printf("Engine: %d workers, max depth %d, search timeout %s", *workers, *maxDepth, *searchTimeout)
		if *dev {
			log.Printf("Rate Limit: 20 requests/second per IP (DEV MODE)")
		} else {
			log.Printf("Rate Limit: 10 requests/second per IP")
		}
		if *storagePath != "" {
			log.Printf("Storage: Enabled (%s)", *storagePath)
		} else {
			log.Printf("Storage: Disabled (cache and operator login unavailable)")
		}
		log.Printf("API Endpoints: http://%s/api/v1/[moves|evaluate|search|analyses|board]", apiAddr)
		log.Printf("Auth Endpoints: http://%s/api/v1/auth/[login|me|logout]", apiAddr)
		log.Printf("Health: http://%s/health", apiAddr)

		if err := app.Listen(apiAddr); err != nil {
			log.Printf("API server listen error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	// Queue first so no callback finishes a job after the service is gone
	if err := proc.Close(); err != nil {
		log.Printf("Processor close error: %v", err)
	}

	cleanupCancel()

	if err := svc.Shutdown(gracefulShutdownTimeout); err != nil {
		log.Printf("Service shutdown error: %v", err)
	}

	log.Println("Server exited")
}
