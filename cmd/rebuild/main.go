// Package main runs one full catalog rebuild: load schemes, enrich,
// resolve promoters, build the co-promoter network, classify risk, and
// write the catalog artifacts.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"pumpwatch/internal/domain"
	"pumpwatch/internal/rebuild"
	"pumpwatch/internal/storage"
	"pumpwatch/internal/storage/memory"
	"pumpwatch/internal/storage/migrations"
	pgstore "pumpwatch/internal/storage/postgres"
)

func main() {
	loadEnvFile()

	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL")
	input := flag.String("input", "", "Optional scheme-database.json to load before rebuilding")
	outputDir := flag.String("output-dir", "output", "Output directory for catalog artifacts")
	migrate := flag.Bool("migrate", false, "Run database migrations before rebuilding")
	flag.Parse()

	logger := log.New(os.Stdout, "[rebuild] ", log.LstdFlags)

	if !*useMemory && *postgresDSN == "" {
		logger.Fatal("--postgres-dsn is required (use --use-memory for in-memory storage)")
	}
	if *useMemory && *input == "" {
		logger.Fatal("--use-memory requires --input (there is no persisted scheme set to load)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, cancelling rebuild...", sig)
		cancel()
	}()

	schemeStore, promoterStore, cleanup, err := createStores(ctx, *postgresDSN, *useMemory, *migrate)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	if *input != "" {
		n, err := loadSchemeCatalog(ctx, schemeStore, *input)
		if err != nil {
			logger.Fatalf("Failed to load %s: %v", *input, err)
		}
		logger.Printf("Loaded %d schemes from %s", n, *input)
	}

	p := rebuild.NewPipeline(schemeStore, promoterStore, *outputDir).WithLogger(logger)

	start := time.Now()
	result, err := p.Run(ctx)
	if err != nil {
		logger.Fatalf("Rebuild failed: %v", err)
	}

	logger.Printf("Rebuild completed in %v", time.Since(start).Round(time.Millisecond))
	fmt.Printf("Schemes: %d (%d active, %d resolved, %d confirmed fraud)\n",
		result.SchemeCatalog.TotalSchemes, result.SchemeCatalog.ActiveSchemes,
		result.SchemeCatalog.ResolvedSchemes, result.SchemeCatalog.ConfirmedFrauds)
	fmt.Printf("Promoters: %d (%d active, %d serial offenders)\n",
		result.PromoterCatalog.TotalPromoters, result.PromoterCatalog.ActivePromoters,
		result.PromoterCatalog.SerialOffenders)
	fmt.Printf("Artifacts written to %s/\n", *outputDir)
}

// createStores builds the scheme and promoter stores.
func createStores(ctx context.Context, postgresDSN string, useMemory, migrate bool) (storage.SchemeStore, storage.PromoterStore, func(), error) {
	if useMemory {
		return memory.NewSchemeStore(), memory.NewPromoterStore(), func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if migrate {
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	return pgstore.NewSchemeStore(pool), pgstore.NewPromoterStore(pool), pool.Close, nil
}

// loadSchemeCatalog loads a scheme-database.json file into the store.
func loadSchemeCatalog(ctx context.Context, store storage.SchemeStore, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	var catalog domain.SchemeCatalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return 0, fmt.Errorf("parse catalog: %w", err)
	}

	for id, scheme := range catalog.Schemes {
		if scheme.SchemeID == "" {
			scheme.SchemeID = id
		}
		if err := store.Upsert(ctx, scheme); err != nil {
			return 0, fmt.Errorf("upsert scheme %s: %w", id, err)
		}
	}
	return len(catalog.Schemes), nil
}

// loadEnvFile loads environment variables from .env file if it exists.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
