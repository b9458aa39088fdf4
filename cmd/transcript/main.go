package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/notetube/notetube/internal/config"
	handler "github.com/notetube/notetube/internal/handlers/transcript"
	"github.com/notetube/notetube/internal/integrations/transcript"
)

// The transcript proxy is stateless per request; it holds no database
// or cache connections, so shutdown only needs to drain in-flight requests.
func main() {

	cfg := config.New()
	service := handler.New(transcript.New(cfg))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      service,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// Create a notification channel to receive a signal
	// from when a shutdown is complete
	done := make(chan struct{})

	// Listen for SIGINT SIGTERM in a separate goroutine
	// and gracefully shut down the server there if needed.
	go gracefulShutdown(server, done)

	fmt.Printf("Transcript service running on: http://%s\n", server.Addr)

	err := server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Fatalf("http server error: %v", err)
	}

	<-done // Wait for the graceful shutdown to complete
	log.Println("Graceful shutdown complete.")
}

// gracefulShutdown listens for SIGINT and SIGTERM signals, shuts down the
// server and informs the main goroutine when done
func gracefulShutdown(server *http.Server, done chan<- struct{}) {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// This is a blocking call.
	// If context is done an interruption signal was received.
	<-ctx.Done()

	log.Println("Shutting down gracefully, press Ctrl+C again to force...")

	// Stop watching for termination signals so a second signal
	// kills the process immediately, bypassing the graceful shutdown.
	stop()

	// Give the server 5 seconds to finish the requests it is handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown with error: %v", err)
	}

	log.Println("Server exiting...")

	done <- struct{}{}
}
