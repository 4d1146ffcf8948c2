package memory

import (
	"context"
	"sort"
	"sync"

	"pumpwatch/internal/domain"
	"pumpwatch/internal/storage"
)

// SchemeStore is an in-memory implementation of storage.SchemeStore.
type SchemeStore struct {
	mu   sync.RWMutex
	data map[string]*domain.SchemeRecord // keyed by scheme_id
}

// NewSchemeStore creates a new in-memory scheme store.
func NewSchemeStore() *SchemeStore {
	return &SchemeStore{
		data: make(map[string]*domain.SchemeRecord),
	}
}

// Upsert inserts or fully replaces a scheme record by scheme_id.
func (s *SchemeStore) Upsert(_ context.Context, scheme *domain.SchemeRecord) error {
	if scheme == nil || scheme.SchemeID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Store a copy to prevent external mutation
	s.data[scheme.SchemeID] = cloneScheme(scheme)
	return nil
}

// GetByID retrieves a scheme by its ID. Returns ErrNotFound if not exists.
func (s *SchemeStore) GetByID(_ context.Context, schemeID string) (*domain.SchemeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	scheme, exists := s.data[schemeID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	return cloneScheme(scheme), nil
}

// GetAll retrieves the full catalog keyed by scheme_id.
func (s *SchemeStore) GetAll(_ context.Context) (map[string]*domain.SchemeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]*domain.SchemeRecord, len(s.data))
	for id, scheme := range s.data {
		result[id] = cloneScheme(scheme)
	}
	return result, nil
}

// GetByStatus retrieves all schemes in the given status, ordered by scheme_id ASC.
func (s *SchemeStore) GetByStatus(_ context.Context, status domain.SchemeStatus) ([]*domain.SchemeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.SchemeRecord
	for _, scheme := range s.data {
		if scheme.Status == status {
			result = append(result, cloneScheme(scheme))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].SchemeID < result[j].SchemeID
	})

	return result, nil
}

// cloneScheme deep-copies a record. Scheme records hold slices, so a plain
// struct copy would still share backing arrays with the caller.
func cloneScheme(scheme *domain.SchemeRecord) *domain.SchemeRecord {
	schemeCopy := *scheme
	schemeCopy.PriceHistory = append([]domain.PricePoint(nil), scheme.PriceHistory...)
	schemeCopy.PromotionPlatforms = append([]string(nil), scheme.PromotionPlatforms...)
	schemeCopy.PromoterAccounts = append([]domain.PromoterAccount(nil), scheme.PromoterAccounts...)
	schemeCopy.SignalsDetected = append([]string(nil), scheme.SignalsDetected...)
	schemeCopy.CoordinationIndicators = append([]string(nil), scheme.CoordinationIndicators...)
	schemeCopy.Timeline = append([]domain.TimelineEvent(nil), scheme.Timeline...)
	schemeCopy.Notes = append([]string(nil), scheme.Notes...)
	schemeCopy.InvestigationFlags = append([]string(nil), scheme.InvestigationFlags...)
	return &schemeCopy
}

// Verify interface compliance at compile time.
var _ storage.SchemeStore = (*SchemeStore)(nil)
