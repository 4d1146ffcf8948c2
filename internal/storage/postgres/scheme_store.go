package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"pumpwatch/internal/domain"
	"pumpwatch/internal/storage"
)

// SchemeStore implements storage.SchemeStore using PostgreSQL.
// The full record is stored as JSONB next to the columns we query on.
type SchemeStore struct {
	pool *Pool
}

// NewSchemeStore creates a new SchemeStore.
func NewSchemeStore(pool *Pool) *SchemeStore {
	return &SchemeStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SchemeStore = (*SchemeStore)(nil)

// Upsert inserts or fully replaces a scheme record by scheme_id.
func (s *SchemeStore) Upsert(ctx context.Context, scheme *domain.SchemeRecord) error {
	if scheme == nil || scheme.SchemeID == "" {
		return storage.ErrInvalidInput
	}

	record, err := json.Marshal(scheme)
	if err != nil {
		return fmt.Errorf("marshal scheme record: %w", err)
	}

	query := `
		INSERT INTO schemes (scheme_id, symbol, status, record)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (scheme_id) DO UPDATE
		SET symbol = EXCLUDED.symbol,
		    status = EXCLUDED.status,
		    record = EXCLUDED.record,
		    updated_at = now()
	`

	_, err = s.pool.Exec(ctx, query,
		scheme.SchemeID,
		scheme.Symbol,
		string(scheme.Status),
		record,
	)
	if err != nil {
		return fmt.Errorf("upsert scheme: %w", err)
	}
	return nil
}

// GetByID retrieves a scheme by its ID. Returns ErrNotFound if not exists.
func (s *SchemeStore) GetByID(ctx context.Context, schemeID string) (*domain.SchemeRecord, error) {
	query := `
		SELECT record
		FROM schemes
		WHERE scheme_id = $1
	`

	row := s.pool.QueryRow(ctx, query, schemeID)
	scheme, err := scanScheme(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get scheme by id: %w", err)
	}
	return scheme, nil
}

// GetAll retrieves the full catalog keyed by scheme_id.
func (s *SchemeStore) GetAll(ctx context.Context) (map[string]*domain.SchemeRecord, error) {
	query := `
		SELECT record
		FROM schemes
		ORDER BY scheme_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all schemes: %w", err)
	}
	defer rows.Close()

	schemes, err := scanSchemes(rows)
	if err != nil {
		return nil, err
	}

	result := make(map[string]*domain.SchemeRecord, len(schemes))
	for _, scheme := range schemes {
		result[scheme.SchemeID] = scheme
	}
	return result, nil
}

// GetByStatus retrieves all schemes in the given status, ordered by scheme_id ASC.
func (s *SchemeStore) GetByStatus(ctx context.Context, status domain.SchemeStatus) ([]*domain.SchemeRecord, error) {
	query := `
		SELECT record
		FROM schemes
		WHERE status = $1
		ORDER BY scheme_id ASC
	`

	rows, err := s.pool.Query(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("get schemes by status: %w", err)
	}
	defer rows.Close()

	return scanSchemes(rows)
}

// scanScheme scans a single JSONB row into a SchemeRecord.
func scanScheme(row pgx.Row) (*domain.SchemeRecord, error) {
	var record []byte
	if err := row.Scan(&record); err != nil {
		return nil, err
	}

	var scheme domain.SchemeRecord
	if err := json.Unmarshal(record, &scheme); err != nil {
		return nil, fmt.Errorf("unmarshal scheme record: %w", err)
	}
	return &scheme, nil
}

// scanSchemes scans multiple rows into a slice of SchemeRecord.
func scanSchemes(rows pgx.Rows) ([]*domain.SchemeRecord, error) {
	var schemes []*domain.SchemeRecord

	for rows.Next() {
		var record []byte
		if err := rows.Scan(&record); err != nil {
			return nil, fmt.Errorf("scan scheme row: %w", err)
		}

		var scheme domain.SchemeRecord
		if err := json.Unmarshal(record, &scheme); err != nil {
			return nil, fmt.Errorf("unmarshal scheme record: %w", err)
		}
		schemes = append(schemes, &scheme)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scheme rows: %w", err)
	}

	return schemes, nil
}
