// Package main provides a CLI for seeding a local database with demo data.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/louisbranch/courtside/internal/organizer"
	entrypoint "github.com/louisbranch/courtside/internal/platform/cmd"
	"github.com/louisbranch/courtside/internal/seed"
	"github.com/louisbranch/courtside/internal/storage/sqlite"
)

func main() {
	storagePath := flag.String("storage-path", "courtside.db", "Path to the SQLite database file")
	flag.Parse()

	log.SetPrefix("[SEED] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceSeed, func(ctx context.Context) error {
		store, err := sqlite.Open(*storagePath)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		svc, err := organizer.New(store, store)
		if err != nil {
			return err
		}
		return seed.Run(ctx, svc, os.Stdout)
	})
	if err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}
