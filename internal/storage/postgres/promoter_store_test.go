package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"pumpwatch/internal/domain"
	"pumpwatch/internal/storage"
)

func TestPromoterStore_ReplaceAllAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPromoterStore(pool)
	ctx := context.Background()

	entries := []*domain.PromoterEntry{
		{
			PromoterID: "PROM-REDDIT-PUMPGUY123",
			Identifier: "pumpguy123",
			Platform:   "Reddit",
			TotalPosts: 5,
			Confidence: domain.ConfidenceHigh,
			RiskLevel:  domain.RiskHigh,
			IsActive:   true,
			StocksPromoted: []domain.StockPromotion{
				{Symbol: "XYZ", SchemeID: "SCHEME-001", SchemeStatus: domain.StatusOngoing, PostCount: 3},
				{Symbol: "ABC", SchemeID: "SCHEME-002", SchemeStatus: domain.StatusResolved, PostCount: 2},
			},
			CoPromoters: []domain.CoPromoter{
				{PromoterID: "PROM-TELEGR-SHILLER", Identifier: "shiller", Platform: "Telegram", SharedStocks: []string{"XYZ"}},
			},
		},
		{
			PromoterID: "PROM-TELEGR-SHILLER",
			Identifier: "shiller",
			Platform:   "Telegram",
			RiskLevel:  domain.RiskMedium,
		},
	}

	require.NoError(t, store.ReplaceAll(ctx, entries))

	got, err := store.GetByID(ctx, "PROM-REDDIT-PUMPGUY123")
	require.NoError(t, err)
	require.Equal(t, 5, got.TotalPosts)
	require.Len(t, got.StocksPromoted, 2)
	require.Len(t, got.CoPromoters, 1)
	require.Equal(t, []string{"XYZ"}, got.CoPromoters[0].SharedStocks)
}

func TestPromoterStore_ReplaceAllDiscardsPrevious(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPromoterStore(pool)
	ctx := context.Background()

	require.NoError(t, store.ReplaceAll(ctx, []*domain.PromoterEntry{
		{PromoterID: "PROM-REDDIT-OLD", Platform: "Reddit", RiskLevel: domain.RiskLow},
	}))
	require.NoError(t, store.ReplaceAll(ctx, []*domain.PromoterEntry{
		{PromoterID: "PROM-REDDIT-NEW", Platform: "Reddit", RiskLevel: domain.RiskLow},
	}))

	_, err := store.GetByID(ctx, "PROM-REDDIT-OLD")
	require.ErrorIs(t, err, storage.ErrNotFound)

	got, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "PROM-REDDIT-NEW", got[0].PromoterID)
}

func TestPromoterStore_GetByRiskLevel(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPromoterStore(pool)
	ctx := context.Background()

	require.NoError(t, store.ReplaceAll(ctx, []*domain.PromoterEntry{
		{PromoterID: "PROM-REDDIT-AAA", Platform: "Reddit", RiskLevel: domain.RiskSerialOffender},
		{PromoterID: "PROM-REDDIT-BBB", Platform: "Reddit", RiskLevel: domain.RiskLow},
		{PromoterID: "PROM-REDDIT-CCC", Platform: "Reddit", RiskLevel: domain.RiskSerialOffender},
	}))

	got, err := store.GetByRiskLevel(ctx, domain.RiskSerialOffender)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "PROM-REDDIT-AAA", got[0].PromoterID)
	require.Equal(t, "PROM-REDDIT-CCC", got[1].PromoterID)
}

func TestPromoterStore_ReplaceAllInvalidInput(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPromoterStore(pool)
	ctx := context.Background()

	err := store.ReplaceAll(ctx, []*domain.PromoterEntry{{PromoterID: ""}})
	require.ErrorIs(t, err, storage.ErrInvalidInput)
}
