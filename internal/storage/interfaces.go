package storage

import (
	"context"

	"pumpwatch/internal/domain"
)

// SchemeStore provides access to the scheme catalog.
type SchemeStore interface {
	// Upsert inserts or fully replaces a scheme record by scheme_id.
	Upsert(ctx context.Context, scheme *domain.SchemeRecord) error

	// GetByID retrieves a scheme by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, schemeID string) (*domain.SchemeRecord, error)

	// GetAll retrieves the full catalog keyed by scheme_id.
	GetAll(ctx context.Context) (map[string]*domain.SchemeRecord, error)

	// GetByStatus retrieves all schemes in the given status, ordered by scheme_id ASC.
	GetByStatus(ctx context.Context, status domain.SchemeStatus) ([]*domain.SchemeRecord, error)
}

// PromoterStore provides access to the promoter catalog. The catalog is
// recomputed from scratch on every rebuild, so the only write is a full
// replacement.
type PromoterStore interface {
	// ReplaceAll atomically replaces the entire catalog with the given entries.
	ReplaceAll(ctx context.Context, entries []*domain.PromoterEntry) error

	// GetByID retrieves a promoter by its derived ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, promoterID string) (*domain.PromoterEntry, error)

	// GetAll retrieves all promoters, ordered by promoter_id ASC.
	GetAll(ctx context.Context) ([]*domain.PromoterEntry, error)

	// GetByRiskLevel retrieves all promoters at the given tier, ordered by promoter_id ASC.
	GetByRiskLevel(ctx context.Context, level domain.RiskLevel) ([]*domain.PromoterEntry, error)
}

// MentionStore provides access to harvested social mentions. Mentions are
// immutable once scored, so the store is append-only.
type MentionStore interface {
	// InsertBulk adds multiple scored mentions. Fails the entire batch on error.
	InsertBulk(ctx context.Context, mentions []*domain.SocialMention) error

	// GetBySymbol retrieves all mentions for a ticker symbol, ordered by post_date ASC.
	GetBySymbol(ctx context.Context, symbol string) ([]*domain.SocialMention, error)

	// GetByPlatform retrieves all mentions from a platform, ordered by post_date ASC.
	GetByPlatform(ctx context.Context, platform string) ([]*domain.SocialMention, error)

	// CountPromotional counts mentions for a symbol flagged as promotional.
	CountPromotional(ctx context.Context, symbol string) (uint64, error)
}
