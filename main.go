package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"visionaryiq/api"
	"visionaryiq/config"
	"visionaryiq/db"
	"visionaryiq/notify"

	"github.com/gin-gonic/gin"
)

// @title           VisionaryIQ Contact API
// @version         1.0.0

// @description     ## VisionaryIQ Contact API
// @description
// @description     Backend of the VisionaryIQ consultancy website. It accepts contact form submissions,
// @description     stores them in a private JSON file (newest first, capped at 500 records), keeps running
// @description     statistics per month and per project type, and prepares a notification email for the owner.
// @description
// @description     Offline tools (`cmd/export-contacts`, `cmd/view-contacts`) read the same files.

// @license.name  MIT

// @host      localhost:8080
// @BasePath  /
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("CRITICAL: Failed to load configuration: %v", err)
	}

	database := db.NewDatabase(cfg)
	dispatcher := notify.NewDispatcher(notify.LogSender{}, cfg)

	// Set GIN_MODE=release in production.
	router := api.NewRouter(database, dispatcher)
	server := newServer(cfg, router)

	go func() {
		log.Printf("INFO: Starting server on %s (gin mode: %s)", server.Addr, gin.Mode())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("CRITICAL: Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("INFO: Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("ERROR: Server shutdown failed: %v", err)
	}

	// Let in-flight notifications finish before exiting.
	dispatcher.Wait()
	log.Printf("INFO: Server stopped")
}

// newServer wraps handler in an http.Server listening on the configured address.
func newServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.ListenAddress, cfg.ListenPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1 MB
	}
}
