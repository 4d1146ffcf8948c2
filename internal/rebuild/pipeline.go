// Package rebuild orchestrates the full catalog recomputation: enrichment,
// identity resolution, network construction, risk classification, and the
// two durable JSON artifacts.
package rebuild

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"pumpwatch/internal/domain"
	"pumpwatch/internal/enrichment"
	"pumpwatch/internal/network"
	"pumpwatch/internal/observability"
	"pumpwatch/internal/reporting"
	"pumpwatch/internal/resolver"
	"pumpwatch/internal/risk"
	"pumpwatch/internal/storage"
)

// Artifact file names written to the output directory.
const (
	SchemeDatabaseFile   = "scheme-database.json"
	PromoterDatabaseFile = "promoter-database.json"
	NetworkReportFile    = "PROMOTER_NETWORK_REPORT.md"
	PromotersCSVFile     = "promoters.csv"
)

// indexedNetworkThreshold switches the network builder to the inverted-index
// variant. Both produce identical output; the naive pass is fine at the
// hundreds-of-promoters scale.
const indexedNetworkThreshold = 1000

// Result summarizes one rebuild run.
type Result struct {
	SchemeCatalog   *domain.SchemeCatalog
	PromoterCatalog *domain.PromoterCatalog
}

// Pipeline recomputes both catalogs from the scheme store. There is no
// incremental path: every run starts from the full scheme set, so a failed
// run leaves the previous promoter catalog untouched.
type Pipeline struct {
	schemeStore   storage.SchemeStore
	promoterStore storage.PromoterStore
	classifier    *risk.Classifier
	outputDir     string
	clock         func() time.Time
	logger        *log.Logger
}

// NewPipeline creates a rebuild pipeline writing artifacts to outputDir.
func NewPipeline(schemeStore storage.SchemeStore, promoterStore storage.PromoterStore, outputDir string) *Pipeline {
	return &Pipeline{
		schemeStore:   schemeStore,
		promoterStore: promoterStore,
		classifier:    risk.NewClassifier(),
		outputDir:     outputDir,
		clock:         func() time.Time { return time.Now().UTC() },
		logger:        log.New(os.Stderr, "[rebuild] ", log.LstdFlags),
	}
}

// WithClock sets a custom clock function for deterministic output.
func (p *Pipeline) WithClock(clock func() time.Time) *Pipeline {
	p.clock = clock
	return p
}

// WithLogger sets a custom logger.
func (p *Pipeline) WithLogger(logger *log.Logger) *Pipeline {
	p.logger = logger
	return p
}

// Run executes the full rebuild and writes the output artifacts:
//   - scheme-database.json
//   - promoter-database.json
//   - PROMOTER_NETWORK_REPORT.md
//   - promoters.csv
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := p.clock()

	result, err := p.run(ctx)
	if err != nil {
		observability.RecordRebuildRun("error", p.clock().Sub(start).Seconds())
		return nil, err
	}

	observability.RecordRebuildRun("ok", p.clock().Sub(start).Seconds())
	observability.DefaultMetrics.LastSuccessfulRebuild.SetToCurrentTime()
	return result, nil
}

func (p *Pipeline) run(ctx context.Context) (*Result, error) {
	if err := os.MkdirAll(p.outputDir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	// 1. Load the full scheme snapshot.
	loadStart := p.clock()
	schemes, err := p.schemeStore.GetAll(ctx)
	observability.RecordDBQuery("postgres", "load_schemes", p.clock().Sub(loadStart).Seconds(), err)
	if err != nil {
		return nil, fmt.Errorf("load schemes: %w", err)
	}
	p.logger.Printf("loaded %d schemes", len(schemes))
	observability.DefaultMetrics.SchemesProcessed.Add(float64(len(schemes)))

	// 2. Repair records and synthesize platform placeholder accounts.
	before := countAccounts(schemes)
	enrichment.EnrichAll(schemes)
	if synthesized := countAccounts(schemes) - before; synthesized > 0 {
		p.logger.Printf("synthesized %d placeholder accounts", synthesized)
		observability.DefaultMetrics.AccountsSynthesized.Add(float64(synthesized))
	}

	// 3. Persist the repaired schemes so the store matches the artifact.
	for _, schemeID := range sortedIDs(schemes) {
		if err := p.schemeStore.Upsert(ctx, schemes[schemeID]); err != nil {
			return nil, fmt.Errorf("persist scheme %s: %w", schemeID, err)
		}
	}

	// 4. Resolve canonical promoters and build the network.
	entries := resolver.Resolve(schemes)
	if len(entries) >= indexedNetworkThreshold {
		network.BuildIndexed(entries)
	} else {
		network.Build(entries)
	}
	p.classifier.ClassifyAll(entries)
	p.logger.Printf("resolved %d promoters", len(entries))

	// 5. Replace the promoter catalog wholesale.
	replaceStart := p.clock()
	err = p.promoterStore.ReplaceAll(ctx, entries)
	observability.RecordDBQuery("postgres", "replace_promoters", p.clock().Sub(replaceStart).Seconds(), err)
	if err != nil {
		return nil, fmt.Errorf("replace promoter catalog: %w", err)
	}

	now := p.clock()
	schemeCatalog := reporting.BuildSchemeCatalog(schemes, now)
	promoterCatalog := reporting.BuildPromoterCatalog(entries, now)

	observability.DefaultMetrics.PromotersResolved.Set(float64(promoterCatalog.TotalPromoters))
	observability.DefaultMetrics.SerialOffendersFound.Set(float64(promoterCatalog.SerialOffenders))

	// 6. Write artifacts. Each file is written to a temp name and renamed,
	// so readers never observe a partial file.
	if err := p.writeJSON(SchemeDatabaseFile, schemeCatalog); err != nil {
		return nil, err
	}
	if err := p.writeJSON(PromoterDatabaseFile, promoterCatalog); err != nil {
		return nil, err
	}
	if err := p.writeFile(NetworkReportFile, []byte(reporting.RenderNetworkReport(promoterCatalog, now))); err != nil {
		return nil, err
	}
	if err := p.writeFile(PromotersCSVFile, []byte(reporting.RenderPromotersCSV(entries))); err != nil {
		return nil, err
	}

	p.logger.Printf("rebuild complete: %d schemes, %d promoters, %d serial offenders",
		schemeCatalog.TotalSchemes, promoterCatalog.TotalPromoters, promoterCatalog.SerialOffenders)

	return &Result{SchemeCatalog: schemeCatalog, PromoterCatalog: promoterCatalog}, nil
}

func (p *Pipeline) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	return p.writeFile(name, append(data, '\n'))
}

func (p *Pipeline) writeFile(name string, data []byte) error {
	path := filepath.Join(p.outputDir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}

func sortedIDs(schemes map[string]*domain.SchemeRecord) []string {
	ids := make([]string, 0, len(schemes))
	for id := range schemes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func countAccounts(schemes map[string]*domain.SchemeRecord) int {
	total := 0
	for _, scheme := range schemes {
		total += len(scheme.PromoterAccounts)
	}
	return total
}
