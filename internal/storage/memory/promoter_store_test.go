package memory

import (
	"context"
	"errors"
	"testing"

	"pumpwatch/internal/domain"
	"pumpwatch/internal/storage"
)

func TestPromoterStore_ReplaceAllAndGet(t *testing.T) {
	store := NewPromoterStore()
	ctx := context.Background()

	entries := []*domain.PromoterEntry{
		{PromoterID: "PROM-REDDIT-PUMPGUY123", Identifier: "pumpguy123", Platform: "Reddit", RiskLevel: domain.RiskHigh},
		{PromoterID: "PROM-TELEGR-SHILLER", Identifier: "shiller", Platform: "Telegram", RiskLevel: domain.RiskLow},
	}

	err := store.ReplaceAll(ctx, entries)
	if err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	got, err := store.GetByID(ctx, "PROM-REDDIT-PUMPGUY123")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Identifier != "pumpguy123" {
		t.Errorf("Identifier mismatch: got %s", got.Identifier)
	}
}

func TestPromoterStore_ReplaceAllDiscardsPrevious(t *testing.T) {
	store := NewPromoterStore()
	ctx := context.Background()

	first := []*domain.PromoterEntry{{PromoterID: "PROM-REDDIT-OLD", Platform: "Reddit"}}
	if err := store.ReplaceAll(ctx, first); err != nil {
		t.Fatalf("First ReplaceAll failed: %v", err)
	}

	second := []*domain.PromoterEntry{{PromoterID: "PROM-REDDIT-NEW", Platform: "Reddit"}}
	if err := store.ReplaceAll(ctx, second); err != nil {
		t.Fatalf("Second ReplaceAll failed: %v", err)
	}

	if _, err := store.GetByID(ctx, "PROM-REDDIT-OLD"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Stale entry survived rebuild: %v", err)
	}
	if _, err := store.GetByID(ctx, "PROM-REDDIT-NEW"); err != nil {
		t.Errorf("New entry missing: %v", err)
	}
}

func TestPromoterStore_ReplaceAllInvalidInput(t *testing.T) {
	store := NewPromoterStore()
	ctx := context.Background()

	if err := store.ReplaceAll(ctx, []*domain.PromoterEntry{{PromoterID: "PROM-OK-A"}, {}}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}

	// A failed replace must not clobber existing data.
	if err := store.ReplaceAll(ctx, []*domain.PromoterEntry{{PromoterID: "PROM-OK-A"}}); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}
	if err := store.ReplaceAll(ctx, []*domain.PromoterEntry{nil}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
	if _, err := store.GetByID(ctx, "PROM-OK-A"); err != nil {
		t.Errorf("Failed replace clobbered data: %v", err)
	}
}

func TestPromoterStore_GetAllOrdered(t *testing.T) {
	store := NewPromoterStore()
	ctx := context.Background()

	entries := []*domain.PromoterEntry{
		{PromoterID: "PROM-REDDIT-ZZZ", Platform: "Reddit"},
		{PromoterID: "PROM-REDDIT-AAA", Platform: "Reddit"},
		{PromoterID: "PROM-REDDIT-MMM", Platform: "Reddit"},
	}
	if err := store.ReplaceAll(ctx, entries); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	got, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Expected 3 promoters, got %d", len(got))
	}
	if got[0].PromoterID != "PROM-REDDIT-AAA" || got[2].PromoterID != "PROM-REDDIT-ZZZ" {
		t.Errorf("Wrong order: %s .. %s", got[0].PromoterID, got[2].PromoterID)
	}
}

func TestPromoterStore_GetByRiskLevel(t *testing.T) {
	store := NewPromoterStore()
	ctx := context.Background()

	entries := []*domain.PromoterEntry{
		{PromoterID: "PROM-REDDIT-AAA", RiskLevel: domain.RiskSerialOffender},
		{PromoterID: "PROM-REDDIT-BBB", RiskLevel: domain.RiskLow},
		{PromoterID: "PROM-REDDIT-CCC", RiskLevel: domain.RiskSerialOffender},
	}
	if err := store.ReplaceAll(ctx, entries); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	got, err := store.GetByRiskLevel(ctx, domain.RiskSerialOffender)
	if err != nil {
		t.Fatalf("GetByRiskLevel failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Expected 2 serial offenders, got %d", len(got))
	}
}

func TestPromoterStore_CopyIsolation(t *testing.T) {
	store := NewPromoterStore()
	ctx := context.Background()

	entry := &domain.PromoterEntry{
		PromoterID:  "PROM-REDDIT-AAA",
		CoPromoters: []domain.CoPromoter{{PromoterID: "PROM-REDDIT-BBB", SharedStocks: []string{"XYZ"}}},
	}
	if err := store.ReplaceAll(ctx, []*domain.PromoterEntry{entry}); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	entry.CoPromoters[0].SharedStocks[0] = "MUTATED"

	got, err := store.GetByID(ctx, "PROM-REDDIT-AAA")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.CoPromoters[0].SharedStocks[0] != "XYZ" {
		t.Errorf("Store leaked caller mutation: %v", got.CoPromoters[0].SharedStocks)
	}
}
