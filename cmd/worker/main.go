package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"strongbox/internal/app/bootstrap"
)

// Worker process entrypoint: relays pending audit signals to the bus.
func main() {
	log.Println("strongbox worker starting")
	app, err := bootstrap.BuildWorker()
	if err != nil {
		log.Fatalf("strongbox worker bootstrap failed: %v", err)
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("strongbox worker stopped: %v", err)
	}
}
