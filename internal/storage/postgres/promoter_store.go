package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"pumpwatch/internal/domain"
	"pumpwatch/internal/storage"
)

// PromoterStore implements storage.PromoterStore using PostgreSQL.
type PromoterStore struct {
	pool *Pool
}

// NewPromoterStore creates a new PromoterStore.
func NewPromoterStore(pool *Pool) *PromoterStore {
	return &PromoterStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PromoterStore = (*PromoterStore)(nil)

// ReplaceAll atomically replaces the entire catalog with the given entries.
// Runs in one transaction so readers never observe a partially rebuilt catalog.
func (s *PromoterStore) ReplaceAll(ctx context.Context, entries []*domain.PromoterEntry) error {
	for _, entry := range entries {
		if entry == nil || entry.PromoterID == "" {
			return storage.ErrInvalidInput
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM promoters`); err != nil {
		return fmt.Errorf("clear promoters: %w", err)
	}

	query := `
		INSERT INTO promoters (promoter_id, platform, identifier, risk_level, is_active, entry)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, entry := range entries {
		payload, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("marshal promoter entry: %w", err)
		}
		_, err = tx.Exec(ctx, query,
			entry.PromoterID,
			entry.Platform,
			entry.Identifier,
			string(entry.RiskLevel),
			entry.IsActive,
			payload,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert promoter: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace transaction: %w", err)
	}
	return nil
}

// GetByID retrieves a promoter by its derived ID. Returns ErrNotFound if not exists.
func (s *PromoterStore) GetByID(ctx context.Context, promoterID string) (*domain.PromoterEntry, error) {
	query := `
		SELECT entry
		FROM promoters
		WHERE promoter_id = $1
	`

	row := s.pool.QueryRow(ctx, query, promoterID)
	entry, err := scanPromoter(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get promoter by id: %w", err)
	}
	return entry, nil
}

// GetAll retrieves all promoters, ordered by promoter_id ASC.
func (s *PromoterStore) GetAll(ctx context.Context) ([]*domain.PromoterEntry, error) {
	query := `
		SELECT entry
		FROM promoters
		ORDER BY promoter_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all promoters: %w", err)
	}
	defer rows.Close()

	return scanPromoters(rows)
}

// GetByRiskLevel retrieves all promoters at the given tier, ordered by promoter_id ASC.
func (s *PromoterStore) GetByRiskLevel(ctx context.Context, level domain.RiskLevel) ([]*domain.PromoterEntry, error) {
	query := `
		SELECT entry
		FROM promoters
		WHERE risk_level = $1
		ORDER BY promoter_id ASC
	`

	rows, err := s.pool.Query(ctx, query, string(level))
	if err != nil {
		return nil, fmt.Errorf("get promoters by risk level: %w", err)
	}
	defer rows.Close()

	return scanPromoters(rows)
}

// scanPromoter scans a single JSONB row into a PromoterEntry.
func scanPromoter(row pgx.Row) (*domain.PromoterEntry, error) {
	var payload []byte
	if err := row.Scan(&payload); err != nil {
		return nil, err
	}

	var entry domain.PromoterEntry
	if err := json.Unmarshal(payload, &entry); err != nil {
		return nil, fmt.Errorf("unmarshal promoter entry: %w", err)
	}
	return &entry, nil
}

// scanPromoters scans multiple rows into a slice of PromoterEntry.
func scanPromoters(rows pgx.Rows) ([]*domain.PromoterEntry, error) {
	var entries []*domain.PromoterEntry

	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan promoter row: %w", err)
		}

		var entry domain.PromoterEntry
		if err := json.Unmarshal(payload, &entry); err != nil {
			return nil, fmt.Errorf("unmarshal promoter entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate promoter rows: %w", err)
	}

	return entries, nil
}
