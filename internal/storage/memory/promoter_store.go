package memory

import (
	"context"
	"sort"
	"sync"

	"pumpwatch/internal/domain"
	"pumpwatch/internal/storage"
)

// PromoterStore is an in-memory implementation of storage.PromoterStore.
type PromoterStore struct {
	mu   sync.RWMutex
	data map[string]*domain.PromoterEntry // keyed by promoter_id
}

// NewPromoterStore creates a new in-memory promoter store.
func NewPromoterStore() *PromoterStore {
	return &PromoterStore{
		data: make(map[string]*domain.PromoterEntry),
	}
}

// ReplaceAll atomically replaces the entire catalog with the given entries.
func (s *PromoterStore) ReplaceAll(_ context.Context, entries []*domain.PromoterEntry) error {
	for _, entry := range entries {
		if entry == nil || entry.PromoterID == "" {
			return storage.ErrInvalidInput
		}
	}

	data := make(map[string]*domain.PromoterEntry, len(entries))
	for _, entry := range entries {
		data[entry.PromoterID] = clonePromoter(entry)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = data
	return nil
}

// GetByID retrieves a promoter by its derived ID. Returns ErrNotFound if not exists.
func (s *PromoterStore) GetByID(_ context.Context, promoterID string) (*domain.PromoterEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, exists := s.data[promoterID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	return clonePromoter(entry), nil
}

// GetAll retrieves all promoters, ordered by promoter_id ASC.
func (s *PromoterStore) GetAll(_ context.Context) ([]*domain.PromoterEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.PromoterEntry, 0, len(s.data))
	for _, entry := range s.data {
		result = append(result, clonePromoter(entry))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].PromoterID < result[j].PromoterID
	})

	return result, nil
}

// GetByRiskLevel retrieves all promoters at the given tier, ordered by promoter_id ASC.
func (s *PromoterStore) GetByRiskLevel(_ context.Context, level domain.RiskLevel) ([]*domain.PromoterEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.PromoterEntry
	for _, entry := range s.data {
		if entry.RiskLevel == level {
			result = append(result, clonePromoter(entry))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].PromoterID < result[j].PromoterID
	})

	return result, nil
}

// clonePromoter deep-copies an entry, including nested co-promoter stock sets.
func clonePromoter(entry *domain.PromoterEntry) *domain.PromoterEntry {
	entryCopy := *entry
	entryCopy.StocksPromoted = append([]domain.StockPromotion(nil), entry.StocksPromoted...)
	entryCopy.CoPromoters = make([]domain.CoPromoter, len(entry.CoPromoters))
	for i, link := range entry.CoPromoters {
		link.SharedStocks = append([]string(nil), link.SharedStocks...)
		entryCopy.CoPromoters[i] = link
	}
	return &entryCopy
}

// Verify interface compliance at compile time.
var _ storage.PromoterStore = (*PromoterStore)(nil)
