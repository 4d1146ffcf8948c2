package memory

import (
	"context"
	"sort"
	"sync"

	"pumpwatch/internal/domain"
	"pumpwatch/internal/storage"
)

// MentionStore is an in-memory implementation of storage.MentionStore.
type MentionStore struct {
	mu   sync.RWMutex
	data []*domain.SocialMention
}

// NewMentionStore creates a new in-memory mention store.
func NewMentionStore() *MentionStore {
	return &MentionStore{}
}

// InsertBulk adds multiple scored mentions. Fails the entire batch on error.
func (s *MentionStore) InsertBulk(_ context.Context, mentions []*domain.SocialMention) error {
	for _, m := range mentions {
		if m == nil || m.Symbol == "" || m.Platform == "" {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range mentions {
		s.data = append(s.data, cloneMention(m))
	}
	return nil
}

// GetBySymbol retrieves all mentions for a ticker symbol, ordered by post_date ASC.
func (s *MentionStore) GetBySymbol(_ context.Context, symbol string) ([]*domain.SocialMention, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.SocialMention
	for _, m := range s.data {
		if m.Symbol == symbol {
			result = append(result, cloneMention(m))
		}
	}

	sortMentions(result)
	return result, nil
}

// GetByPlatform retrieves all mentions from a platform, ordered by post_date ASC.
func (s *MentionStore) GetByPlatform(_ context.Context, platform string) ([]*domain.SocialMention, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.SocialMention
	for _, m := range s.data {
		if m.Platform == platform {
			result = append(result, cloneMention(m))
		}
	}

	sortMentions(result)
	return result, nil
}

// CountPromotional counts mentions for a symbol flagged as promotional.
func (s *MentionStore) CountPromotional(_ context.Context, symbol string) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count uint64
	for _, m := range s.data {
		if m.Symbol == symbol && m.IsPromotional {
			count++
		}
	}
	return count, nil
}

// sortMentions orders by post_date ASC. ISO-8601 strings sort chronologically.
func sortMentions(mentions []*domain.SocialMention) {
	sort.Slice(mentions, func(i, j int) bool {
		return mentions[i].PostDate < mentions[j].PostDate
	})
}

func cloneMention(m *domain.SocialMention) *domain.SocialMention {
	mentionCopy := *m
	mentionCopy.RedFlags = append([]string(nil), m.RedFlags...)
	return &mentionCopy
}

// Verify interface compliance at compile time.
var _ storage.MentionStore = (*MentionStore)(nil)
