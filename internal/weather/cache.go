package weather

import (
	"context"
	"strings"
	"sync"
	"time"
)

// CacheTTL is how long a cached payload stays valid. An expired entry is
// treated as absent and overwritten by the next successful fetch.
const CacheTTL = 10 * time.Minute

// Store is the cache backing. Implementations: MemoryStore (default) and
// RedisStore. Get must treat expired entries as absent.
type Store interface {
	Get(ctx context.Context, key string) (Payload, bool)
	Set(ctx context.Context, key string, p Payload)
}

type Fetcher interface {
	FetchByCity(ctx context.Context, city string) (Payload, error)
}

// Service is the read-through cache in front of the provider client.
// Concurrent resolves for the same uncached city proceed independently;
// last writer wins on the cache entry.
type Service struct {
	fetcher Fetcher
	store   Store
}

func NewService(fetcher Fetcher, store Store) *Service {
	return &Service{fetcher: fetcher, store: store}
}

// CacheKey normalizes a city name to its cache key.
func CacheKey(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}

func (s *Service) Resolve(ctx context.Context, city string) (Payload, error) {
	key := CacheKey(city)
	if p, ok := s.store.Get(ctx, key); ok {
		cacheHits.Inc()
		return p, nil
	}
	cacheMisses.Inc()

	p, err := s.fetcher.FetchByCity(ctx, city)
	if err != nil {
		providerFailures.Inc()
		return Payload{}, err
	}
	s.store.Set(ctx, key, p)
	return p, nil
}

type memoryEntry struct {
	payload   Payload
	fetchedAt time.Time
}

type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithClock(time.Now)
}

func NewMemoryStoreWithClock(now func() time.Time) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     CacheTTL,
		now:     now,
	}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (Payload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	if !ok || s.now().Sub(entry.fetchedAt) >= s.ttl {
		return Payload{}, false
	}
	return entry.payload, true
}

func (s *MemoryStore) Set(ctx context.Context, key string, p Payload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{payload: p, fetchedAt: s.now()}
}
