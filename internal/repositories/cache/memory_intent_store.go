package cache

import (
	"context"
	"sync"
	"time"

	"github.com/SscSPs/trakmymedia/internal/apperrors"
	"github.com/SscSPs/trakmymedia/internal/core/domain"
	portsrepo "github.com/SscSPs/trakmymedia/internal/core/ports/repositories"
	"github.com/SscSPs/trakmymedia/internal/utils"
)

type memoryIntent struct {
	intent    domain.NavigationIntent
	expiresAt time.Time
}

// MemoryIntentStore is the single-process fallback when no redis is configured.
type MemoryIntentStore struct {
	mu      sync.Mutex
	entries map[string]memoryIntent
	now     func() time.Time
}

var _ portsrepo.IntentStore = (*MemoryIntentStore)(nil)

func NewMemoryIntentStore() *MemoryIntentStore {
	return &MemoryIntentStore{entries: make(map[string]memoryIntent), now: time.Now}
}

func (s *MemoryIntentStore) Save(_ context.Context, intent domain.NavigationIntent, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	// drop expired entries so the map stays bounded
	for k, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, k)
		}
	}
	s.entries[utils.HashOpaqueToken(intent.ID)] = memoryIntent{intent: intent, expiresAt: now.Add(ttl)}
	return nil
}

func (s *MemoryIntentStore) Consume(_ context.Context, intentID string) (*domain.NavigationIntent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := utils.HashOpaqueToken(intentID)
	e, ok := s.entries[key]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	delete(s.entries, key)
	if !s.now().Before(e.expiresAt) {
		return nil, apperrors.ErrNotFound
	}
	intent := e.intent
	return &intent, nil
}
