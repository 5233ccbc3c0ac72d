package main

import (
	"context"
	"log"

	"strongbox/internal/app/bootstrap"
)

// API process entrypoint.
// Data flow:
// 1) Load config.
// 2) Build app wiring (ports + adapters + use cases) and bind vault to ledger.
// 3) Start HTTP server.
func main() {
	log.Println("strongbox api starting")
	app, err := bootstrap.BuildAPI()
	if err != nil {
		log.Fatalf("strongbox api bootstrap failed: %v", err)
	}
	defer app.Close()

	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("strongbox api stopped: %v", err)
	}
}
