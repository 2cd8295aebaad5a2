// Package courtside parses server flags and launches the MCP server over
// the durable stores.
package courtside

import (
	"context"
	"flag"
	"log"

	"github.com/louisbranch/courtside/internal/grant"
	"github.com/louisbranch/courtside/internal/mcp"
	"github.com/louisbranch/courtside/internal/organizer"
	entrypoint "github.com/louisbranch/courtside/internal/platform/cmd"
	"github.com/louisbranch/courtside/internal/storage/sqlite"
)

// Config holds courtside server configuration.
type Config struct {
	StoragePath string `env:"COURTSIDE_STORAGE_PATH" envDefault:"courtside.db"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.StoragePath, "storage-path", cfg.StoragePath, "Path to the SQLite database file")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the MCP server on stdio backed by the SQLite stores.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceCourtside, func(ctx context.Context) error {
		store, err := sqlite.Open(cfg.StoragePath)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		opts := []organizer.Option{}
		grantCfg, grantsEnabled, err := grant.LoadConfigFromEnv(nil, nil)
		if err != nil {
			return err
		}
		if grantsEnabled {
			opts = append(opts, organizer.WithGrants(grantCfg))
		} else {
			log.Printf("rsvp grants disabled: no signing keys configured")
		}

		svc, err := organizer.New(store, store, opts...)
		if err != nil {
			return err
		}

		server, err := mcp.New(svc)
		if err != nil {
			return err
		}
		return server.Serve(ctx)
	})
}
