package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// sweepEvery bounds how often Save walks the map for expired entries.
const sweepEvery = time.Minute

type memoryEntry struct {
	raw     []byte
	expires time.Time
}

type memoryLock struct {
	token   string
	expires time.Time
}

// MemoryStore is used when no redis address is configured. Sessions do not
// survive a restart and are not shared between instances.
type MemoryStore struct {
	mu        sync.Mutex
	entries   map[string]memoryEntry
	locks     map[string]memoryLock
	ttl       time.Duration
	nextSweep time.Time
	now       func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		locks:   make(map[string]memoryLock),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryStore) Load(_ context.Context, id string, v any) (bool, error) {
	s.mu.Lock()
	e, ok := s.entries[id]
	if ok && !s.now().Before(e.expires) {
		delete(s.entries, id)
		ok = false
	}
	s.mu.Unlock()

	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(e.raw, v); err != nil {
		return false, fmt.Errorf("decode session: %w", err)
	}
	return true, nil
}

func (s *MemoryStore) Save(_ context.Context, id string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)
	s.entries[id] = memoryEntry{raw: raw, expires: now.Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

func (s *MemoryStore) Lock(_ context.Context, id string, ttl time.Duration) (func(), bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if l, held := s.locks[id]; held && now.Before(l.expires) {
		return func() {}, false, nil
	}

	token := uuid.NewString()
	s.locks[id] = memoryLock{token: token, expires: now.Add(ttl)}

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if l, held := s.locks[id]; held && l.token == token {
			delete(s.locks, id)
		}
	}, true, nil
}

// Len reports how many sessions are held, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// sweep drops expired sessions and lapsed locks. Callers hold s.mu.
func (s *MemoryStore) sweep(now time.Time) {
	if now.Before(s.nextSweep) {
		return
	}
	s.nextSweep = now.Add(sweepEvery)

	for id, e := range s.entries {
		if !now.Before(e.expires) {
			delete(s.entries, id)
		}
	}
	for id, l := range s.locks {
		if !now.Before(l.expires) {
			delete(s.locks, id)
		}
	}
}
