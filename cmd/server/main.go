// Package main provides the unified service that runs all components:
// - Harvest (continuous): feed subscription, scoring, mention storage
// - Rebuild (scheduled): enrichment, resolution, network, risk, artifacts
// - HTTP: health, metrics, status, and the generated catalog artifacts
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"pumpwatch/internal/feed"
	"pumpwatch/internal/harvest"
	"pumpwatch/internal/observability"
	"pumpwatch/internal/rebuild"
	"pumpwatch/internal/scoring"
	"pumpwatch/internal/storage"
	chstore "pumpwatch/internal/storage/clickhouse"
	"pumpwatch/internal/storage/memory"
	"pumpwatch/internal/storage/migrations"
	pgstore "pumpwatch/internal/storage/postgres"
)

// Server holds all components of the unified service.
type Server struct {
	// Configuration
	feedEndpoint    string
	outputDir       string
	rebuildInterval time.Duration
	platforms       []string
	threshold       int

	// Stores
	stores *allStores

	scorer *scoring.Scorer
	logger *log.Logger

	// State
	mu             sync.Mutex
	lastRebuildRun time.Time
	rebuildRunning bool
	harvestStarted time.Time
	rebuildRuns    int
}

// allStores holds all storage implementations.
type allStores struct {
	schemeStore   storage.SchemeStore
	promoterStore storage.PromoterStore
	mentionStore  storage.MentionStore
}

func main() {
	loadEnvFile()

	feedEndpoint := flag.String("feed-endpoint", os.Getenv("FEED_WS_ENDPOINT"), "Scanner feed WebSocket endpoint")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL/ClickHouse")
	platforms := flag.String("platforms", "", "Comma-separated platform filter for the feed (empty matches all)")
	threshold := flag.Int("threshold", 30, "Promotional classification cutoff")
	outputDir := flag.String("output-dir", "output", "Output directory for catalog artifacts")
	rebuildInterval := flag.Duration("rebuild-interval", 1*time.Hour, "Catalog rebuild interval")
	migrate := flag.Bool("migrate", false, "Run database migrations on startup")
	httpAddr := flag.String("http-addr", ":9090", "HTTP address for health/metrics/status")
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	if *feedEndpoint == "" {
		logger.Fatal("--feed-endpoint is required")
	}
	if !*useMemory && (*postgresDSN == "" || *clickhouseDSN == "") {
		logger.Fatal("--postgres-dsn and --clickhouse-dsn are required (use --use-memory for in-memory storage)")
	}

	ctx, cancel := context.WithCancel(context.Background())

	stores, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory, *migrate)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	server := &Server{
		feedEndpoint:    *feedEndpoint,
		outputDir:       *outputDir,
		rebuildInterval: *rebuildInterval,
		platforms:       splitList(*platforms),
		threshold:       *threshold,
		stores:          stores,
		scorer:          scoring.NewScorer(nil),
		logger:          logger,
	}

	done := make(chan error, 1)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Println("Graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-done:
			// Normal shutdown completed
		}
	}()

	go server.startHTTPServer(*httpAddr)

	err = server.Run(ctx)
	done <- err
	cancel()

	if err != nil && err != context.Canceled {
		logger.Fatalf("Server error: %v", err)
	}

	logger.Println("Shutdown complete")
}

// createStores creates all required stores.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory, migrate bool) (*allStores, func(), error) {
	if useMemory {
		return &allStores{
			schemeStore:   memory.NewSchemeStore(),
			promoterStore: memory.NewPromoterStore(),
			mentionStore:  memory.NewMentionStore(),
		}, func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}

	var chConn *chstore.Conn
	if migrate {
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("run postgres migrations: %w", err)
		}
		chConn, err = migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
	} else {
		chConn, err = chstore.NewConn(ctx, clickhouseDSN)
	}
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("connect to clickhouse: %w", err)
	}

	stores := &allStores{
		schemeStore:   pgstore.NewSchemeStore(pool),
		promoterStore: pgstore.NewPromoterStore(pool),
		mentionStore:  chstore.NewMentionStore(chConn),
	}

	cleanup := func() {
		chConn.Close()
		pool.Close()
	}

	return stores, cleanup, nil
}

// Run starts all components and blocks until cancellation or error.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Println("Starting unified server...")

	errCh := make(chan error, 2)

	go func() {
		err := s.runHarvest(ctx)
		if err != nil && err != context.Canceled {
			errCh <- fmt.Errorf("harvest: %w", err)
		}
	}()

	go func() {
		err := s.runRebuildScheduler(ctx)
		if err != nil && err != context.Canceled {
			errCh <- fmt.Errorf("rebuild scheduler: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// runHarvest runs the continuous mention harvester.
func (s *Server) runHarvest(ctx context.Context) error {
	s.logger.Println("Starting harvest...")

	client, err := feed.Dial(ctx, s.feedEndpoint, nil)
	if err != nil {
		return fmt.Errorf("connect to feed: %w", err)
	}
	defer client.Close()

	mentions, err := client.Subscribe(ctx, feed.MentionFilter{Platforms: s.platforms})
	if err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	s.mu.Lock()
	s.harvestStarted = time.Now()
	s.mu.Unlock()

	runner := harvest.NewRunner(s.stores.mentionStore).
		WithThreshold(s.threshold).
		WithLogger(log.New(os.Stdout, "[harvest] ", log.LstdFlags))

	s.logger.Println("Harvest started")
	return runner.Run(ctx, mentions)
}

// runRebuildScheduler runs the catalog rebuild on schedule.
func (s *Server) runRebuildScheduler(ctx context.Context) error {
	s.logger.Printf("Starting rebuild scheduler (interval: %v)...", s.rebuildInterval)

	// Run immediately on start
	s.runRebuild(ctx)

	ticker := time.NewTicker(s.rebuildInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runRebuild(ctx)
		}
	}
}

// runRebuild executes one catalog rebuild.
func (s *Server) runRebuild(ctx context.Context) {
	s.mu.Lock()
	if s.rebuildRunning {
		s.mu.Unlock()
		s.logger.Println("Rebuild already running, skipping...")
		return
	}
	s.rebuildRunning = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.rebuildRunning = false
		s.lastRebuildRun = time.Now()
		s.rebuildRuns++
		s.mu.Unlock()
	}()

	s.logger.Println("Running rebuild...")
	start := time.Now()

	p := rebuild.NewPipeline(s.stores.schemeStore, s.stores.promoterStore, s.outputDir).
		WithLogger(log.New(os.Stdout, "[rebuild] ", log.LstdFlags))

	result, err := p.Run(ctx)
	if err != nil {
		s.logger.Printf("Rebuild error: %v", err)
		return
	}

	s.logger.Printf("Rebuild completed in %v: %d schemes, %d promoters, %d serial offenders",
		time.Since(start).Round(time.Millisecond), result.SchemeCatalog.TotalSchemes,
		result.PromoterCatalog.TotalPromoters, result.PromoterCatalog.SerialOffenders)
}

// startHTTPServer starts the HTTP server for health/metrics/status/artifacts.
func (s *Server) startHTTPServer(addr string) {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.Handle("/metrics", observability.Handler())

	mux.HandleFunc("/status", s.handleStatus)

	// Per-text scoring for external harvesters.
	mux.HandleFunc("/score", s.handleScore)

	// Serve the generated artifacts (scheme-database.json etc).
	mux.Handle("/artifacts/", http.StripPrefix("/artifacts/", http.FileServer(http.Dir(s.outputDir))))

	s.logger.Printf("Starting HTTP server on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
		s.logger.Printf("HTTP server error: %v", err)
	}
}

// StatusResponse is the JSON response for /status endpoint.
type StatusResponse struct {
	Status         string    `json:"status"`
	Uptime         string    `json:"uptime"`
	HarvestStarted time.Time `json:"harvest_started"`
	LastRebuildRun time.Time `json:"last_rebuild_run,omitempty"`
	RebuildRuns    int       `json:"rebuild_runs"`
	RebuildRunning bool      `json:"rebuild_running"`
}

// ScoreRequest is the JSON request for /score.
type ScoreRequest struct {
	Text                 string `json:"text"`
	IsPromotionSubreddit bool   `json:"isPromotionSubreddit,omitempty"`
	IsNewAccount         bool   `json:"isNewAccount,omitempty"`
	HasHighEngagement    bool   `json:"hasHighEngagement,omitempty"`
}

// ScoreResponse is the JSON response for /score.
type ScoreResponse struct {
	Score         int      `json:"score"`
	IsPromotional bool     `json:"isPromotional"`
	Flags         []string `json:"flags"`
}

// handleScore scores one piece of text.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request: %v", err), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}

	result := s.scorer.Score(req.Text, &scoring.Context{
		IsPromotionSubreddit: req.IsPromotionSubreddit,
		IsNewAccount:         req.IsNewAccount,
		HasHighEngagement:    req.HasHighEngagement,
	})

	resp := ScoreResponse{
		Score:         result.Score,
		IsPromotional: result.Score >= s.threshold,
		Flags:         result.Flags,
	}
	if resp.Flags == nil {
		resp.Flags = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// handleStatus returns server status as JSON.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp := StatusResponse{
		Status:         "running",
		Uptime:         time.Since(s.harvestStarted).String(),
		HarvestStarted: s.harvestStarted,
		LastRebuildRun: s.lastRebuildRun,
		RebuildRuns:    s.rebuildRuns,
		RebuildRunning: s.rebuildRunning,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
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
