package main

import (
	"context"
	"log"
	"net/http"

	"github.com/stocktrail/inventory/internal/config"
	api "github.com/stocktrail/inventory/internal/http"
	"github.com/stocktrail/inventory/internal/http/handlers"
	rl "github.com/stocktrail/inventory/internal/http/rate_limiter"
	"github.com/stocktrail/inventory/internal/kv"
	"github.com/stocktrail/inventory/internal/lookup"
	"github.com/stocktrail/inventory/internal/store"
)

// @title Inventory Scanner API
// @version 1.0
// @description REST API for a barcode-driven inventory tracker: product catalog, stock movements and the transaction ledger.
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Could not load configuration: %v", err)
	}

	backend, err := openBackend(cfg)
	if err != nil {
		log.Fatalf("❌ Could not open %s storage: %v", cfg.Storage, err)
	}
	defer backend.Close()

	inventory, err := store.New(context.Background(), backend)
	if err != nil {
		log.Fatalf("❌ Could not load inventory state: %v", err)
	}
	handlers.SetStore(inventory)

	if cfg.LookupBaseURL != "" {
		handlers.SetLookupClient(lookup.NewClient(cfg.LookupBaseURL, cfg.LookupTimeout))
	}

	rl.Configure(cfg.RateLimitPerSecond, cfg.RateLimitBurst)
	go rl.StartVisitorCleanupLoop()

	r := api.RateLimit(api.NewRouter())
	log.Printf("✅ Server running on %s (storage: %s)", cfg.Addr, cfg.Storage)
	if err := http.ListenAndServe(cfg.Addr, r); err != nil {
		log.Fatal(err)
	}
}

func openBackend(cfg *config.Config) (kv.Store, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		return kv.NewMemoryStore(), nil
	case config.StorageRedis:
		return kv.NewRedisStore(cfg.RedisAddr)
	case config.StoragePostgres:
		return kv.NewPostgresStore(cfg.DatabaseURL)
	default:
		return kv.NewFileStore(cfg.DataDir)
	}
}
