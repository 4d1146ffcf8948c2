package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"pumpwatch/internal/domain"
	"pumpwatch/internal/storage"
)

func TestSchemeStore_UpsertAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSchemeStore(pool)
	ctx := context.Background()

	scheme := &domain.SchemeRecord{
		SchemeID:      "SCHEME-001",
		Symbol:        "XYZ",
		Name:          "XYZ Corp",
		Status:        domain.StatusOngoing,
		FirstDetected: "2025-01-01T00:00:00Z",
		LastSeen:      "2025-01-10T00:00:00Z",
		PromoterAccounts: []domain.PromoterAccount{
			{Platform: "Reddit", Identifier: "pumpguy123", PostCount: 3, Confidence: domain.ConfidenceHigh},
		},
		PromotionPlatforms: []string{"Reddit"},
	}

	require.NoError(t, store.Upsert(ctx, scheme))

	got, err := store.GetByID(ctx, "SCHEME-001")
	require.NoError(t, err)
	require.Equal(t, scheme.Symbol, got.Symbol)
	require.Equal(t, scheme.Status, got.Status)
	require.Len(t, got.PromoterAccounts, 1)
	require.Equal(t, "pumpguy123", got.PromoterAccounts[0].Identifier)
}

func TestSchemeStore_UpsertReplaces(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSchemeStore(pool)
	ctx := context.Background()

	scheme := &domain.SchemeRecord{SchemeID: "SCHEME-001", Symbol: "XYZ", Status: domain.StatusNew}
	require.NoError(t, store.Upsert(ctx, scheme))

	scheme.Status = domain.StatusOngoing
	scheme.Notes = []string{"escalated after volume spike"}
	require.NoError(t, store.Upsert(ctx, scheme))

	got, err := store.GetByID(ctx, "SCHEME-001")
	require.NoError(t, err)
	require.Equal(t, domain.StatusOngoing, got.Status)
	require.Equal(t, []string{"escalated after volume spike"}, got.Notes)
}

func TestSchemeStore_NotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSchemeStore(pool)

	_, err := store.GetByID(context.Background(), "nonexistent")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSchemeStore_GetByStatus(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSchemeStore(pool)
	ctx := context.Background()

	schemes := []*domain.SchemeRecord{
		{SchemeID: "SCHEME-003", Symbol: "CCC", Status: domain.StatusOngoing},
		{SchemeID: "SCHEME-001", Symbol: "AAA", Status: domain.StatusOngoing},
		{SchemeID: "SCHEME-002", Symbol: "BBB", Status: domain.StatusConfirmedFraud},
	}
	for _, scheme := range schemes {
		require.NoError(t, store.Upsert(ctx, scheme))
	}

	got, err := store.GetByStatus(ctx, domain.StatusOngoing)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "SCHEME-001", got[0].SchemeID)
	require.Equal(t, "SCHEME-003", got[1].SchemeID)
}

func TestSchemeStore_GetAll(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSchemeStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, &domain.SchemeRecord{SchemeID: "SCHEME-001", Symbol: "AAA"}))
	require.NoError(t, store.Upsert(ctx, &domain.SchemeRecord{SchemeID: "SCHEME-002", Symbol: "BBB"}))

	got, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "AAA", got["SCHEME-001"].Symbol)
	require.Equal(t, "BBB", got["SCHEME-002"].Symbol)
}
