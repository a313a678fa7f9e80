package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Startup is fatal on any wiring error, including an empty model registry.
	app, err := initializeApp()
	if err != nil {
		log.Fatalf("failed to start digestly: %v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("digestly stopped with error: %v", err)
	}
}
