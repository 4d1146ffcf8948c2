package clickhouse

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"pumpwatch/internal/domain"
	"pumpwatch/internal/storage"
)

// MentionStore implements storage.MentionStore using ClickHouse.
// Mentions are append-only, which fits a MergeTree table.
type MentionStore struct {
	conn *Conn
}

// NewMentionStore creates a new MentionStore.
func NewMentionStore(conn *Conn) *MentionStore {
	return &MentionStore{conn: conn}
}

// Compile-time interface check.
var _ storage.MentionStore = (*MentionStore)(nil)

// InsertBulk adds multiple scored mentions. Fails the entire batch on error.
func (s *MentionStore) InsertBulk(ctx context.Context, mentions []*domain.SocialMention) error {
	if len(mentions) == 0 {
		return nil
	}
	for _, m := range mentions {
		if m == nil || m.Symbol == "" || m.Platform == "" {
			return storage.ErrInvalidInput
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO social_mentions (
			symbol, platform, source, discovered_via, title, content, url, author,
			post_date, upvotes, comments, views, likes, shares,
			sentiment, is_promotional, promotion_score, red_flags
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, m := range mentions {
		err = batch.Append(
			m.Symbol, m.Platform, m.Source, m.DiscoveredVia, m.Title, m.Content, m.URL, m.Author,
			m.PostDate,
			int32(m.Engagement.Upvotes), int32(m.Engagement.Comments), int32(m.Engagement.Views),
			int32(m.Engagement.Likes), int32(m.Engagement.Shares),
			m.Sentiment, boolToUInt8(m.IsPromotional), int32(m.PromotionScore), m.RedFlags,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetBySymbol retrieves all mentions for a ticker symbol, ordered by post_date ASC.
func (s *MentionStore) GetBySymbol(ctx context.Context, symbol string) ([]*domain.SocialMention, error) {
	query := selectMentions + `
		WHERE symbol = ?
		ORDER BY post_date ASC
	`

	rows, err := s.conn.Query(ctx, query, symbol)
	if err != nil {
		return nil, fmt.Errorf("query mentions by symbol: %w", err)
	}
	defer rows.Close()

	return scanMentions(rows)
}

// GetByPlatform retrieves all mentions from a platform, ordered by post_date ASC.
func (s *MentionStore) GetByPlatform(ctx context.Context, platform string) ([]*domain.SocialMention, error) {
	query := selectMentions + `
		WHERE platform = ?
		ORDER BY post_date ASC
	`

	rows, err := s.conn.Query(ctx, query, platform)
	if err != nil {
		return nil, fmt.Errorf("query mentions by platform: %w", err)
	}
	defer rows.Close()

	return scanMentions(rows)
}

// CountPromotional counts mentions for a symbol flagged as promotional.
func (s *MentionStore) CountPromotional(ctx context.Context, symbol string) (uint64, error) {
	query := `
		SELECT count(*) FROM social_mentions
		WHERE symbol = ? AND is_promotional = 1
	`

	var count uint64
	if err := s.conn.QueryRow(ctx, query, symbol).Scan(&count); err != nil {
		return 0, fmt.Errorf("count promotional mentions: %w", err)
	}
	return count, nil
}

const selectMentions = `
	SELECT symbol, platform, source, discovered_via, title, content, url, author,
	       post_date, upvotes, comments, views, likes, shares,
	       sentiment, is_promotional, promotion_score, red_flags
	FROM social_mentions
`

// scanMentions scans multiple rows into a slice of SocialMention.
func scanMentions(rows driver.Rows) ([]*domain.SocialMention, error) {
	var mentions []*domain.SocialMention

	for rows.Next() {
		var m domain.SocialMention
		var upvotes, comments, views, likes, shares, score int32
		var promotional uint8

		err := rows.Scan(
			&m.Symbol, &m.Platform, &m.Source, &m.DiscoveredVia, &m.Title, &m.Content, &m.URL, &m.Author,
			&m.PostDate, &upvotes, &comments, &views, &likes, &shares,
			&m.Sentiment, &promotional, &score, &m.RedFlags,
		)
		if err != nil {
			return nil, fmt.Errorf("scan mention row: %w", err)
		}

		m.Engagement = domain.Engagement{
			Upvotes:  int(upvotes),
			Comments: int(comments),
			Views:    int(views),
			Likes:    int(likes),
			Shares:   int(shares),
		}
		m.IsPromotional = promotional != 0
		m.PromotionScore = int(score)
		mentions = append(mentions, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mention rows: %w", err)
	}

	return mentions, nil
}

func boolToUInt8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
