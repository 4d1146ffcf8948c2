// Package main runs the continuous mention harvester: subscribe to the
// scanner feed over WebSocket, score each mention, and persist scored
// mentions to ClickHouse in batches.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"pumpwatch/internal/feed"
	"pumpwatch/internal/harvest"
	"pumpwatch/internal/observability"
	"pumpwatch/internal/storage"
	chstore "pumpwatch/internal/storage/clickhouse"
	"pumpwatch/internal/storage/memory"
	"pumpwatch/internal/storage/migrations"
)

func main() {
	loadEnvFile()

	feedEndpoint := flag.String("feed-endpoint", os.Getenv("FEED_WS_ENDPOINT"), "Scanner feed WebSocket endpoint")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of ClickHouse")
	platforms := flag.String("platforms", "", "Comma-separated platform filter (empty matches all)")
	symbols := flag.String("symbols", "", "Comma-separated symbol filter (empty matches all)")
	threshold := flag.Int("threshold", 30, "Promotional classification cutoff")
	batchSize := flag.Int("batch-size", harvest.DefaultBatchSize, "Mention insert batch size")
	flushInterval := flag.Duration("flush-interval", harvest.DefaultFlushInterval, "Maximum time to hold a partial batch")
	migrate := flag.Bool("migrate", false, "Run ClickHouse migrations before harvesting")
	metricsAddr := flag.String("metrics-addr", ":9091", "Prometheus metrics HTTP address")
	flag.Parse()

	logger := log.New(os.Stdout, "[harvest] ", log.LstdFlags)

	if *feedEndpoint == "" {
		logger.Fatal("--feed-endpoint is required")
	}
	if !*useMemory && *clickhouseDSN == "" {
		logger.Fatal("--clickhouse-dsn is required (use --use-memory for in-memory storage)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	store, cleanup, err := createMentionStore(ctx, *clickhouseDSN, *useMemory, *migrate)
	if err != nil {
		logger.Fatalf("Failed to create mention store: %v", err)
	}
	defer cleanup()

	go startMetricsServer(*metricsAddr, logger)

	client, err := feed.Dial(ctx, *feedEndpoint, nil)
	if err != nil {
		logger.Fatalf("Failed to connect to feed: %v", err)
	}
	defer client.Close()

	filter := feed.MentionFilter{
		Platforms: splitList(*platforms),
		Symbols:   splitList(*symbols),
	}
	mentions, err := client.Subscribe(ctx, filter)
	if err != nil {
		logger.Fatalf("Failed to subscribe: %v", err)
	}
	logger.Printf("Subscribed to %s (platforms=%v symbols=%v)", *feedEndpoint, filter.Platforms, filter.Symbols)

	runner := harvest.NewRunner(store).
		WithThreshold(*threshold).
		WithBatchSize(*batchSize).
		WithFlushInterval(*flushInterval).
		WithLogger(logger)

	start := time.Now()
	err = runner.Run(ctx, mentions)
	if err != nil && err != context.Canceled {
		logger.Fatalf("Harvest error: %v", err)
	}
	logger.Printf("Harvest stopped after %v", time.Since(start).Round(time.Second))
}

// createMentionStore builds the mention store, running migrations on request.
func createMentionStore(ctx context.Context, dsn string, useMemory, migrate bool) (storage.MentionStore, func(), error) {
	if useMemory {
		return memory.NewMentionStore(), func() {}, nil
	}

	if migrate {
		conn, err := migrations.RunClickhouseMigrations(ctx, dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("run migrations: %w", err)
		}
		return chstore.NewMentionStore(conn), func() { conn.Close() }, nil
	}

	conn, err := chstore.NewConn(ctx, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to clickhouse: %w", err)
	}
	return chstore.NewMentionStore(conn), func() { conn.Close() }, nil
}

// startMetricsServer serves /metrics and /health.
func startMetricsServer(addr string, logger *log.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", observability.Handler())

	logger.Printf("Metrics server listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
		logger.Printf("Metrics server error: %v", err)
	}
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
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
