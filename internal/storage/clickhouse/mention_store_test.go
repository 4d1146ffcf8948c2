package clickhouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"pumpwatch/internal/domain"
	"pumpwatch/internal/storage"
)

func TestMentionStore_InsertBulkAndGetBySymbol(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewMentionStore(conn)
	ctx := context.Background()

	mentions := []*domain.SocialMention{
		{
			Symbol:         "XYZ",
			Platform:       "Reddit",
			Source:         "r/pennystocks",
			DiscoveredVia:  "keyword scan",
			Title:          "XYZ to the moon",
			Content:        "guaranteed returns, buy now",
			URL:            "https://reddit.com/r/pennystocks/1",
			Author:         "pumpguy123",
			PostDate:       "2025-01-02T00:00:00Z",
			Engagement:     domain.Engagement{Upvotes: 120, Comments: 44},
			Sentiment:      "bullish",
			IsPromotional:  true,
			PromotionScore: 65,
			RedFlags:       []string{`Contains "guaranteed returns"`, `Contains "buy now"`},
		},
		{
			Symbol:         "XYZ",
			Platform:       "StockTwits",
			PostDate:       "2025-01-01T00:00:00Z",
			PromotionScore: 10,
		},
	}

	require.NoError(t, store.InsertBulk(ctx, mentions))

	got, err := store.GetBySymbol(ctx, "XYZ")
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Ordered by post_date ASC
	require.Equal(t, "2025-01-01T00:00:00Z", got[0].PostDate)
	require.Equal(t, "2025-01-02T00:00:00Z", got[1].PostDate)

	require.True(t, got[1].IsPromotional)
	require.Equal(t, 65, got[1].PromotionScore)
	require.Equal(t, 120, got[1].Engagement.Upvotes)
	require.Equal(t, []string{`Contains "guaranteed returns"`, `Contains "buy now"`}, got[1].RedFlags)
}

func TestMentionStore_GetByPlatform(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewMentionStore(conn)
	ctx := context.Background()

	mentions := []*domain.SocialMention{
		{Symbol: "XYZ", Platform: "Reddit", PostDate: "2025-01-01T00:00:00Z"},
		{Symbol: "ABC", Platform: "Reddit", PostDate: "2025-01-02T00:00:00Z"},
		{Symbol: "XYZ", Platform: "Telegram", PostDate: "2025-01-03T00:00:00Z"},
	}
	require.NoError(t, store.InsertBulk(ctx, mentions))

	got, err := store.GetByPlatform(ctx, "Reddit")
	require.NoError(t, err)
	require.Len(t, got, 2)
}

func TestMentionStore_CountPromotional(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewMentionStore(conn)
	ctx := context.Background()

	mentions := []*domain.SocialMention{
		{Symbol: "XYZ", Platform: "Reddit", PostDate: "2025-01-01T00:00:00Z", IsPromotional: true},
		{Symbol: "XYZ", Platform: "Reddit", PostDate: "2025-01-02T00:00:00Z"},
		{Symbol: "XYZ", Platform: "Telegram", PostDate: "2025-01-03T00:00:00Z", IsPromotional: true},
		{Symbol: "ABC", Platform: "Reddit", PostDate: "2025-01-04T00:00:00Z", IsPromotional: true},
	}
	require.NoError(t, store.InsertBulk(ctx, mentions))

	count, err := store.CountPromotional(ctx, "XYZ")
	require.NoError(t, err)
	require.Equal(t, uint64(2), count)
}

func TestMentionStore_InvalidInput(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewMentionStore(conn)

	err := store.InsertBulk(context.Background(), []*domain.SocialMention{{Platform: "Reddit"}})
	require.ErrorIs(t, err, storage.ErrInvalidInput)
}

func TestMentionStore_EmptyBatchIsNoop(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewMentionStore(conn)

	require.NoError(t, store.InsertBulk(context.Background(), nil))
}
